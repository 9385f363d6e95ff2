package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *PayGuardClient
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *PayGuardClient) *Handlers {
	return &Handlers{client: client}
}

// HandleAnalyzeMessage scores a message for payment fraud risk.
func (h *Handlers) HandleAnalyzeMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := req.GetString("message", "")
	if strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	channel := req.GetString("channel", "")
	actorRole := req.GetString("actor_role", "")
	amount := req.GetString("amount", "")

	raw, err := h.client.Analyze(ctx, message, channel, actorRole, amount)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Analysis failed: %v", err)), nil
	}

	text, err := formatAnalysis(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse analysis: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleEventsSummary returns aggregate statistics for scored messages.
func (h *Handlers) HandleEventsSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.EventsSummary(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get summary: %v", err)), nil
	}

	text, err := formatSummary(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse summary: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleServiceHealth reports the health of the PayGuard service.
func (h *Handlers) HandleServiceHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.Health(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Health check failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatJSON(raw)), nil
}

// --- Formatting helpers ---

type analysisResult struct {
	EventID    string  `json:"eventId"`
	FinalScore float64 `json:"finalScore"`
	Level      string  `json:"level"`
	Heuristics struct {
		UrgencyHits   int      `json:"urgencyHits"`
		AuthorityHits int      `json:"authorityHits"`
		SecrecyHits   int      `json:"secrecyHits"`
		PaymentHits   int      `json:"paymentHits"`
		MetaHits      int      `json:"metaHits"`
		Amount        *float64 `json:"amount"`
		BaseScore     int      `json:"baseScore"`
	} `json:"heuristics"`
	AI *struct {
		OverallRiskScore   *float64 `json:"overall_risk_score"`
		RiskLevel          string   `json:"risk_level"`
		KeyIndicators      []string `json:"key_indicators"`
		SafeHandlingAdvice []string `json:"safe_handling_advice"`
		ShortSummary       string   `json:"short_summary"`
	} `json:"ai"`
}

func formatAnalysis(raw json.RawMessage) (string, error) {
	var r analysisResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", err
	}
	if r.Level == "" {
		return "", fmt.Errorf("unexpected analysis response format")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Risk: %s (score %.1f/100)\n", r.Level, r.FinalScore)
	fmt.Fprintf(&sb, "Event ID: %s\n", r.EventID)

	sb.WriteString("\nHeuristic signals:\n")
	fmt.Fprintf(&sb, "  Urgency: %d | Authority: %d | Secrecy: %d | Payment: %d | Meta: %d\n",
		r.Heuristics.UrgencyHits, r.Heuristics.AuthorityHits, r.Heuristics.SecrecyHits,
		r.Heuristics.PaymentHits, r.Heuristics.MetaHits)
	if r.Heuristics.Amount != nil {
		fmt.Fprintf(&sb, "  Amount detected: %.2f\n", *r.Heuristics.Amount)
	}
	fmt.Fprintf(&sb, "  Keyword score: %d/100\n", r.Heuristics.BaseScore)

	if r.AI != nil {
		sb.WriteString("\nAI assessment:\n")
		if r.AI.OverallRiskScore != nil {
			fmt.Fprintf(&sb, "  Score: %.0f (%s)\n", *r.AI.OverallRiskScore, r.AI.RiskLevel)
		} else if r.AI.RiskLevel != "" {
			fmt.Fprintf(&sb, "  Level: %s\n", r.AI.RiskLevel)
		}
		if r.AI.ShortSummary != "" {
			fmt.Fprintf(&sb, "  Summary: %s\n", r.AI.ShortSummary)
		}
		if len(r.AI.KeyIndicators) > 0 {
			sb.WriteString("  Key indicators:\n")
			for _, ind := range r.AI.KeyIndicators {
				fmt.Fprintf(&sb, "    - %s\n", ind)
			}
		}
		if len(r.AI.SafeHandlingAdvice) > 0 {
			sb.WriteString("  Safe handling:\n")
			for _, adv := range r.AI.SafeHandlingAdvice {
				fmt.Fprintf(&sb, "    - %s\n", adv)
			}
		}
	} else {
		sb.WriteString("\nAI assessment: unavailable (heuristics only)\n")
	}

	return sb.String(), nil
}

type summaryResult struct {
	Total   int `json:"total"`
	ByLevel []struct {
		Level string `json:"level"`
		Count int    `json:"count"`
	} `json:"byLevel"`
	Recent []struct {
		ID         string  `json:"id"`
		Channel    string  `json:"channel"`
		FinalScore float64 `json:"finalScore"`
		RiskLevel  string  `json:"riskLevel"`
		CreatedAt  string  `json:"createdAt"`
	} `json:"recent"`
}

func formatSummary(raw json.RawMessage) (string, error) {
	var s summaryResult
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}

	if s.Total == 0 {
		return "No messages have been scored yet.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Scored messages: %d\n", s.Total)
	if len(s.ByLevel) > 0 {
		sb.WriteString("By risk level:\n")
		for _, lc := range s.ByLevel {
			fmt.Fprintf(&sb, "  %s: %d\n", lc.Level, lc.Count)
		}
	}
	if len(s.Recent) > 0 {
		fmt.Fprintf(&sb, "\nRecent events (%d):\n", len(s.Recent))
		for i, e := range s.Recent {
			channel := e.Channel
			if channel == "" {
				channel = "unknown"
			}
			fmt.Fprintf(&sb, "%d. [%s] %.1f via %s at %s (id %s)\n",
				i+1, e.RiskLevel, e.FinalScore, channel, e.CreatedAt, e.ID)
		}
	}
	return sb.String(), nil
}

func formatJSON(raw json.RawMessage) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}
	return pretty.String()
}
