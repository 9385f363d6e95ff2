// Package events persists scored risk events and aggregates them for
// the summary and export endpoints.
//
// Persistence is an audit trail, not part of the scoring decision:
// callers append events asynchronously and never fail a request on a
// store error.
package events

import (
	"context"
	"time"

	"github.com/mbd888/payguard/internal/classifier"
	"github.com/mbd888/payguard/internal/heuristics"
	"github.com/mbd888/payguard/internal/scoring"
)

// Event is one analyzed message with its full scoring breakdown.
// AI is nil when the model assessment was unavailable for this event.
type Event struct {
	ID           string                 `json:"id"`
	Channel      string                 `json:"channel"`
	ActorRole    string                 `json:"actorRole"`
	AmountRaw    string                 `json:"amountRaw"`
	ParsedAmount *float64               `json:"parsedAmount"`
	FinalScore   float64                `json:"finalScore"`
	RiskLevel    scoring.Level          `json:"riskLevel"`
	Heuristics   heuristics.Result      `json:"heuristics"`
	AI           *classifier.Assessment `json:"ai"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// LevelCount is one row of the per-level aggregate.
type LevelCount struct {
	Level scoring.Level `json:"level"`
	Count int           `json:"count"`
}

// Summary is the aggregate view served by the events-summary endpoint.
// ByLevel only contains levels with at least one event; Recent is
// newest-first.
type Summary struct {
	Total   int          `json:"total"`
	ByLevel []LevelCount `json:"byLevel"`
	Recent  []*Event     `json:"recent"`
}

// Store persists risk events for audit and reporting.
type Store interface {
	Append(ctx context.Context, event *Event) error
	Summarize(ctx context.Context, recentLimit int) (*Summary, error)
	ListAll(ctx context.Context) ([]*Event, error)
}
