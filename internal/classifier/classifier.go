// Package classifier calls an external language model to assess payment
// messages for fraud.
//
// The model is treated as an unreliable, optional oracle: replies arrive
// as free text that may be wrapped in markdown fences or surrounded by
// prose, so they are sanitized down to the embedded JSON object before
// parsing. Any failure — transport, auth, malformed reply — surfaces as
// an error that the pipeline degrades to "no semantic assessment".
// A reply either parses fully into an Assessment or is discarded whole;
// partially-parsed objects never escape this package.
package classifier

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Input carries the message and its context to the model.
type Input struct {
	Message   string
	Channel   string
	ActorRole string
	Amount    string
}

// FactorScores is the model's per-factor risk breakdown (nominally 0-100).
type FactorScores struct {
	Urgency                    float64 `json:"urgency"`
	AuthorityImpersonation     float64 `json:"authority_impersonation"`
	SecrecyOrBypass            float64 `json:"secrecy_or_bypass"`
	UnusualPaymentInstructions float64 `json:"unusual_payment_instructions"`
	LanguageManipulation       float64 `json:"language_manipulation"`
}

// Assessment is the model's risk opinion. OverallRiskScore is a pointer
// so a missing or non-numeric score is distinguishable from a literal 0;
// blending only trusts the score when it is present and finite. RiskLevel
// is advisory — the pipeline recomputes its own level from the blended
// score. No range validation is applied beyond successful parsing.
type Assessment struct {
	OverallRiskScore   *float64     `json:"overall_risk_score"`
	RiskLevel          string       `json:"risk_level"`
	FactorScores       FactorScores `json:"factor_scores"`
	KeyIndicators      []string     `json:"key_indicators"`
	SafeHandlingAdvice []string     `json:"safe_handling_advice"`
	ShortSummary       string       `json:"short_summary"`
}

// ExtractJSON sanitizes a raw model reply down to the embedded JSON
// object: a leading code fence (with or without a language tag) and the
// trailing fence are stripped, then everything outside the first '{' and
// the last '}' is discarded.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = s[3:]
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first != -1 && last != -1 && last > first {
		s = s[first : last+1]
	}

	return s
}

// Parse sanitizes and decodes a raw model reply into an Assessment.
// The result is all-or-nothing: on any decode failure the reply is
// rejected entirely.
func Parse(raw string) (*Assessment, error) {
	cleaned := ExtractJSON(raw)

	var a Assessment
	if err := json.Unmarshal([]byte(cleaned), &a); err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}
	return &a, nil
}
