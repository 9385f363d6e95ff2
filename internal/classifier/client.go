package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Default connection settings for the model endpoint. The original
// deployment targets Groq's OpenAI-compatible API; any endpoint speaking
// the chat-completions protocol works.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
	DefaultTimeout = 30 * time.Second
)

const systemPrompt = "You are a precise, cautious fraud risk scoring engine for a bank. " +
	"ALWAYS respond with valid JSON only."

const promptTemplate = `You are an AI fraud-detection assistant specializing in
deepfake-enabled payment fraud, business email compromise (BEC), and
social engineering in financial institutions.

You will be given a payment-related message and some context.
Your job is to assess the likelihood that this is a fraudulent or
social-engineering request.

Return ONLY a JSON object with this exact structure:

{
  "overall_risk_score": <number 0-100>,
  "risk_level": "LOW" | "MEDIUM" | "HIGH",
  "factor_scores": {
    "urgency": <0-100>,
    "authority_impersonation": <0-100>,
    "secrecy_or_bypass": <0-100>,
    "unusual_payment_instructions": <0-100>,
    "language_manipulation": <0-100>
  },
  "key_indicators": [ "string", "string", ... ],
  "safe_handling_advice": [ "string", "string", ... ],
  "short_summary": "1-2 sentence human-readable explanation."
}

Be conservative: if there are multiple red flags,
"overall_risk_score" should be 70+ and "HIGH".

Message:
"""%s"""

Channel: %s
Claimed sender role: %s
Requested amount: %s
`

// Config for the model client.
type Config struct {
	BaseURL string // e.g. "https://api.groq.com/openai/v1"
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
// One request per Classify call; no retries — failure handling is the
// caller's concern and is expected to be fail-open.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a model client. Zero-value config fields fall back
// to the package defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify sends the message to the model and parses its reply.
// Returns (nil, err) on any failure; never panics, never retries.
func (c *Client) Classify(ctx context.Context, in Input) (*Assessment, error) {
	prompt := buildPrompt(in)

	reqBody, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read model response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model API error (%d): %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return nil, fmt.Errorf("decode completion envelope: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	assessment, err := Parse(cr.Choices[0].Message.Content)
	if err != nil {
		c.logger.Error("failed to parse model reply after sanitization",
			"error", err,
			"cleaned", truncate(ExtractJSON(cr.Choices[0].Message.Content), 500),
		)
		return nil, err
	}

	return assessment, nil
}

// buildPrompt interpolates the caller-supplied fields into the fixed
// instruction template. The fields are untrusted data; the model is
// instructed to treat them as such, but no escaping is applied.
func buildPrompt(in Input) string {
	channel := in.Channel
	if channel == "" {
		channel = "unknown"
	}
	role := in.ActorRole
	if role == "" {
		role = "unknown"
	}
	amount := in.Amount
	if amount == "" {
		amount = "not specified"
	}
	return fmt.Sprintf(promptTemplate, in.Message, channel, role, amount)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
