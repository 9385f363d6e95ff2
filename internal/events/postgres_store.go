package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mbd888/payguard/internal/classifier"
	"github.com/mbd888/payguard/internal/heuristics"
	"github.com/mbd888/payguard/internal/scoring"
)

// PostgresStore persists risk events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed event store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the risk_events table if it doesn't exist. Production
// deployments run the versioned migrations instead; this covers dev
// setups pointing at a fresh database.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS risk_events (
			id            VARCHAR(36) PRIMARY KEY,
			channel       TEXT NOT NULL DEFAULT '',
			actor_role    TEXT NOT NULL DEFAULT '',
			amount_raw    TEXT NOT NULL DEFAULT '',
			parsed_amount NUMERIC,
			final_score   NUMERIC(5,2) NOT NULL CHECK (final_score >= 0 AND final_score <= 100),
			risk_level    VARCHAR(10) NOT NULL CHECK (risk_level IN ('LOW', 'MEDIUM', 'HIGH')),
			heuristics    JSONB NOT NULL DEFAULT '{}',
			ai            JSONB,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_risk_events_created_at
			ON risk_events (created_at DESC);

		CREATE INDEX IF NOT EXISTS idx_risk_events_level
			ON risk_events (risk_level);
	`)
	return err
}

func (s *PostgresStore) Append(ctx context.Context, event *Event) error {
	heuristicsJSON, err := json.Marshal(event.Heuristics)
	if err != nil {
		return fmt.Errorf("failed to marshal heuristics: %w", err)
	}

	var aiJSON []byte
	if event.AI != nil {
		aiJSON, err = json.Marshal(event.AI)
		if err != nil {
			return fmt.Errorf("failed to marshal assessment: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO risk_events (id, channel, actor_role, amount_raw, parsed_amount,
			final_score, risk_level, heuristics, ai, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		event.ID,
		event.Channel,
		event.ActorRole,
		event.AmountRaw,
		event.ParsedAmount,
		event.FinalScore,
		string(event.RiskLevel),
		heuristicsJSON,
		aiJSON,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append risk event: %w", err)
	}
	return nil
}

func (s *PostgresStore) Summarize(ctx context.Context, recentLimit int) (*Summary, error) {
	summary := &Summary{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT risk_level, COUNT(*)
		FROM risk_events
		GROUP BY risk_level
		ORDER BY CASE risk_level WHEN 'LOW' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate risk events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var lc LevelCount
		if err := rows.Scan(&lc.Level, &lc.Count); err != nil {
			continue
		}
		summary.Total += lc.Count
		summary.ByLevel = append(summary.ByLevel, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to aggregate risk events: %w", err)
	}

	recent, err := s.query(ctx, `
		SELECT id, channel, actor_role, amount_raw, parsed_amount,
			final_score, risk_level, heuristics, ai, created_at
		FROM risk_events
		ORDER BY created_at DESC
		LIMIT $1
	`, recentLimit)
	if err != nil {
		return nil, err
	}
	summary.Recent = recent
	return summary, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*Event, error) {
	return s.query(ctx, `
		SELECT id, channel, actor_role, amount_raw, parsed_amount,
			final_score, risk_level, heuristics, ai, created_at
		FROM risk_events
		ORDER BY created_at ASC
	`)
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list risk events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Event
	for rows.Next() {
		var e Event
		var level string
		var heuristicsJSON []byte
		var aiJSON []byte
		var parsedAmount sql.NullFloat64

		if err := rows.Scan(&e.ID, &e.Channel, &e.ActorRole, &e.AmountRaw, &parsedAmount,
			&e.FinalScore, &level, &heuristicsJSON, &aiJSON, &e.CreatedAt); err != nil {
			continue
		}
		e.RiskLevel = scoring.Level(level)
		if parsedAmount.Valid {
			v := parsedAmount.Float64
			e.ParsedAmount = &v
		}
		e.Heuristics = heuristics.Result{}
		_ = json.Unmarshal(heuristicsJSON, &e.Heuristics)
		if len(aiJSON) > 0 {
			var ai classifier.Assessment
			if err := json.Unmarshal(aiJSON, &ai); err == nil {
				e.AI = &ai
			}
		}
		result = append(result, &e)
	}
	return result, nil
}
