package heuristics

import (
	"strings"
	"testing"
)

func TestClassicBECMessage(t *testing.T) {
	engine := NewEngine(nil)

	r := engine.Score(
		"URGENT: wire 50,000 USD immediately, keep this confidential, CEO approved",
		"50,000 USD",
	)

	if r.UrgencyHits < 1 {
		t.Errorf("expected urgency hits >= 1, got %d", r.UrgencyHits)
	}
	if r.AuthorityHits < 1 {
		t.Errorf("expected authority hits >= 1, got %d", r.AuthorityHits)
	}
	if r.SecrecyHits < 1 {
		t.Errorf("expected secrecy hits >= 1, got %d", r.SecrecyHits)
	}
	if r.PaymentHits < 1 {
		t.Errorf("expected payment hits >= 1, got %d", r.PaymentHits)
	}
	if r.Amount == nil || *r.Amount != 50000 {
		t.Fatalf("expected amount 50000, got %v", r.Amount)
	}
	// 50000 sits in the >=20000 tier.
	if pts := engine.amountPoints(r.Amount); pts != 20 {
		t.Errorf("expected 20 amount points for 50000, got %d", pts)
	}
}

func TestAmountTierBoundaries(t *testing.T) {
	engine := NewEngine(nil)

	cases := []struct {
		raw  string
		want int
	}{
		{"100", 0},
		{"4999.99", 0},
		{"5000", 10},
		{"19999", 10},
		{"20000", 20},
		{"99999", 20},
		{"100000", 30},
		{"2,500,000", 30},
	}
	for _, tc := range cases {
		amount := ParseAmount(tc.raw)
		if amount == nil {
			t.Fatalf("ParseAmount(%q) returned nil", tc.raw)
		}
		if got := engine.amountPoints(amount); got != tc.want {
			t.Errorf("amountPoints(%s) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParseAmountNeverNaNOrNegative(t *testing.T) {
	inputs := []string{
		"", "   ", "USD", "$", "...", "-500", "abc-1.5xyz",
		"1.2.3.4", "€9.000,00", "50k", "1e10", "0",
	}
	for _, in := range inputs {
		got := ParseAmount(in)
		if got == nil {
			continue
		}
		if *got < 0 {
			t.Errorf("ParseAmount(%q) = %f, negative", in, *got)
		}
		if *got != *got { // NaN check
			t.Errorf("ParseAmount(%q) = NaN", in)
		}
	}
}

func TestParseAmountStripsCurrencyNoise(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"50,000 USD", 50000},
		{"$1,200.50", 1200.50},
		{"EUR 300", 300},
		{"12.5", 12.5},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.raw)
		if got == nil || *got != tc.want {
			t.Errorf("ParseAmount(%q) = %v, want %f", tc.raw, got, tc.want)
		}
	}
}

func TestParseAmountTakesLongestNumericPrefix(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"50,000.00.", 50000},
		{"1.234.567", 1.234},
		{"$9,500.00. Send today", 9500},
		{".5.5", 0.5},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.raw)
		if got == nil || *got != tc.want {
			t.Errorf("ParseAmount(%q) = %v, want %f", tc.raw, got, tc.want)
		}
	}

	// A lone dot has no numeric prefix at all.
	if got := ParseAmount("..."); got != nil {
		t.Errorf("ParseAmount(\"...\") = %f, want nil", *got)
	}
}

func TestDistinctPatternPresenceNotFrequency(t *testing.T) {
	engine := NewEngine(nil)

	// "urgent" repeated five times still counts as one distinct pattern.
	r := engine.Score("urgent urgent urgent urgent urgent", "")
	if r.UrgencyHits != 1 {
		t.Errorf("expected 1 urgency hit for repeated pattern, got %d", r.UrgencyHits)
	}
	if r.BaseScore != engine.Rules().UrgencyWeight {
		t.Errorf("expected base score %d, got %d", engine.Rules().UrgencyWeight, r.BaseScore)
	}

	// Two distinct urgency patterns count twice.
	r = engine.Score("urgent, do it immediately", "")
	if r.UrgencyHits != 2 {
		t.Errorf("expected 2 urgency hits, got %d", r.UrgencyHits)
	}
}

func TestCaseFolding(t *testing.T) {
	engine := NewEngine(nil)

	r := engine.Score("CONFIDENTIAL request from the CFO", "")
	if r.SecrecyHits != 1 || r.AuthorityHits != 1 {
		t.Errorf("case-folded match failed: secrecy=%d authority=%d", r.SecrecyHits, r.AuthorityHits)
	}
}

func TestBaseScoreClamped(t *testing.T) {
	engine := NewEngine(nil)

	// Saturate every category plus the top amount tier.
	msg := strings.Join(append(append(append(append(
		append([]string{}, DefaultRuleset().UrgencyPatterns...),
		DefaultRuleset().AuthorityPatterns...),
		DefaultRuleset().SecrecyPatterns...),
		DefaultRuleset().PaymentPatterns...),
		DefaultRuleset().MetaPatterns...), " ")

	r := engine.Score(msg, "500000")
	if r.BaseScore != MaxScore {
		t.Errorf("expected clamped score %d, got %d", MaxScore, r.BaseScore)
	}
}

func TestEmptyMessageScoresZero(t *testing.T) {
	engine := NewEngine(nil)

	r := engine.Score("", "")
	if r.BaseScore != 0 {
		t.Errorf("expected 0 for empty message, got %d", r.BaseScore)
	}
	if r.Amount != nil {
		t.Errorf("expected nil amount, got %v", *r.Amount)
	}
}
