package events

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// csvHeader defines the export column order. Kept stable so downstream
// analysis notebooks don't break between exports.
var csvHeader = []string{
	"createdAt",
	"channel",
	"actorRole",
	"amountRaw",
	"parsedAmount",
	"finalScore",
	"riskLevel",
	"heur_urgencyHits",
	"heur_authorityHits",
	"heur_secrecyHits",
	"heur_paymentHits",
	"heur_metaHits",
	"ai_overall_risk_score",
	"ai_risk_level",
}

// WriteCSV writes the events as CSV, header first. Optional fields
// (parsed amount, model assessment) render as empty cells.
func WriteCSV(w io.Writer, events []*Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range events {
		row := []string{
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.Channel,
			e.ActorRole,
			e.AmountRaw,
			formatOptFloat(e.ParsedAmount),
			strconv.FormatFloat(e.FinalScore, 'f', -1, 64),
			string(e.RiskLevel),
			strconv.Itoa(e.Heuristics.UrgencyHits),
			strconv.Itoa(e.Heuristics.AuthorityHits),
			strconv.Itoa(e.Heuristics.SecrecyHits),
			strconv.Itoa(e.Heuristics.PaymentHits),
			strconv.Itoa(e.Heuristics.MetaHits),
			"",
			"",
		}
		if e.AI != nil {
			row[12] = formatOptFloat(e.AI.OverallRiskScore)
			row[13] = e.AI.RiskLevel
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
