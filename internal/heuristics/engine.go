package heuristics

import (
	"math"
	"strconv"
	"strings"
)

// MaxScore is the ceiling for the rule-based score.
const MaxScore = 100

// Result is the outcome of scoring one message.
// Amount is nil when no parseable amount was supplied; it is never NaN
// or negative.
type Result struct {
	UrgencyHits   int      `json:"urgencyHits"`
	AuthorityHits int      `json:"authorityHits"`
	SecrecyHits   int      `json:"secrecyHits"`
	PaymentHits   int      `json:"paymentHits"`
	MetaHits      int      `json:"metaHits"`
	Amount        *float64 `json:"amount"`
	BaseScore     int      `json:"baseScore"`
}

// Engine scores messages against a fixed ruleset.
type Engine struct {
	rules *Ruleset
}

// NewEngine creates an engine scoring with the given ruleset.
// A nil ruleset falls back to the default tables.
func NewEngine(rules *Ruleset) *Engine {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Engine{rules: rules}
}

// Rules returns the ruleset the engine scores with.
func (e *Engine) Rules() *Ruleset {
	return e.rules
}

// Score evaluates a message and raw amount string. Pure and total:
// any input yields a valid Result.
func (e *Engine) Score(message, amountRaw string) Result {
	text := strings.ToLower(message)

	r := Result{
		UrgencyHits:   countHits(text, e.rules.UrgencyPatterns),
		AuthorityHits: countHits(text, e.rules.AuthorityPatterns),
		SecrecyHits:   countHits(text, e.rules.SecrecyPatterns),
		PaymentHits:   countHits(text, e.rules.PaymentPatterns),
		MetaHits:      countHits(text, e.rules.MetaPatterns),
		Amount:        ParseAmount(amountRaw),
	}

	score := r.UrgencyHits*e.rules.UrgencyWeight +
		r.AuthorityHits*e.rules.AuthorityWeight +
		r.SecrecyHits*e.rules.SecrecyWeight +
		r.PaymentHits*e.rules.PaymentWeight +
		r.MetaHits*e.rules.MetaWeight +
		e.amountPoints(r.Amount)

	if score > MaxScore {
		score = MaxScore
	}
	r.BaseScore = score

	return r
}

// countHits returns how many distinct patterns occur in text.
// Presence test per pattern, not an occurrence count.
func countHits(text string, patterns []string) int {
	hits := 0
	for _, p := range patterns {
		if strings.Contains(text, p) {
			hits++
		}
	}
	return hits
}

// amountPoints returns the bonus for the highest tier the amount reaches.
func (e *Engine) amountPoints(amount *float64) int {
	if amount == nil {
		return 0
	}
	for _, tier := range e.rules.AmountTiers {
		if *amount >= tier.Threshold {
			return tier.Points
		}
	}
	return 0
}

// ParseAmount extracts a numeric amount from a free-form string like
// "50,000 USD" or "$1,200.50". Every character that is not a digit or a
// decimal point is stripped before parsing. When the stripped string is
// not a number as a whole (stray trailing punctuation, a second decimal
// point), the longest numeric prefix is taken instead, so "50,000.00."
// parses to 50000 and "1.234.567" to 1.234. Returns nil when nothing
// parseable remains; never returns NaN, infinity, or a negative value.
func ParseAmount(raw string) *float64 {
	var b strings.Builder
	for _, ch := range raw {
		if (ch >= '0' && ch <= '9') || ch == '.' {
			b.WriteRune(ch)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return nil
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		val, err = strconv.ParseFloat(numericPrefix(cleaned), 64)
	}
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
		return nil
	}
	return &val
}

// numericPrefix truncates s at its second decimal point, leaving the
// longest prefix of the form digits[.digits].
func numericPrefix(s string) string {
	seenDot := false
	for i := 0; i < len(s); i++ {
		if s[i] != '.' {
			continue
		}
		if seenDot {
			return s[:i]
		}
		seenDot = true
	}
	return s
}
