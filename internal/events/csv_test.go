package events

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/mbd888/payguard/internal/classifier"
	"github.com/mbd888/payguard/internal/heuristics"
	"github.com/mbd888/payguard/internal/scoring"
)

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "createdAt,channel,actorRole,amountRaw,parsedAmount,finalScore,riskLevel," +
		"heur_urgencyHits,heur_authorityHits,heur_secrecyHits,heur_paymentHits,heur_metaHits," +
		"ai_overall_risk_score,ai_risk_level"
	got := strings.TrimSpace(buf.String())
	if got != want {
		t.Errorf("header = %q, want %q", got, want)
	}
}

func TestWriteCSVRows(t *testing.T) {
	amount := 50000.0
	aiScore := 85.0
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	evts := []*Event{
		{
			ID:           "evt_1",
			Channel:      "email",
			ActorRole:    "ceo",
			AmountRaw:    "$50,000",
			ParsedAmount: &amount,
			FinalScore:   82.5,
			RiskLevel:    scoring.LevelHigh,
			Heuristics:   heuristics.Result{UrgencyHits: 2, AuthorityHits: 1, BaseScore: 80},
			AI: &classifier.Assessment{
				OverallRiskScore: &aiScore,
				RiskLevel:        "HIGH",
			},
			CreatedAt: created,
		},
		{
			ID:         "evt_2",
			FinalScore: 0,
			RiskLevel:  scoring.LevelLow,
			CreatedAt:  created.Add(time.Minute),
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, evts); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (header + 2 rows)", len(records))
	}

	first := records[1]
	if first[0] != "2026-08-30T12:00:00Z" {
		t.Errorf("createdAt = %q", first[0])
	}
	if first[1] != "email" || first[2] != "ceo" || first[3] != "$50,000" {
		t.Errorf("context columns = %v", first[1:4])
	}
	if first[4] != "50000" {
		t.Errorf("parsedAmount = %q, want 50000", first[4])
	}
	if first[5] != "82.5" || first[6] != "HIGH" {
		t.Errorf("score columns = %q %q", first[5], first[6])
	}
	if first[7] != "2" || first[8] != "1" {
		t.Errorf("hit columns = %q %q", first[7], first[8])
	}
	if first[12] != "85" || first[13] != "HIGH" {
		t.Errorf("ai columns = %q %q", first[12], first[13])
	}

	// Absent optional fields render as empty cells
	second := records[2]
	if second[4] != "" {
		t.Errorf("parsedAmount should be empty, got %q", second[4])
	}
	if second[12] != "" || second[13] != "" {
		t.Errorf("ai columns should be empty, got %q %q", second[12], second[13])
	}
}
