// Package heuristics implements rule-based fraud scoring for payment messages.
//
// A message is matched against five category pattern tables (urgency,
// authority impersonation, secrecy, payment instructions, suspicious
// account changes). Each category contributes its distinct-pattern hit
// count times a fixed weight; the requested amount adds tiered points.
// Scores range 0-100. The engine is pure and never fails — semantic
// judgment is a separate, optional concern handled by the classifier.
package heuristics

// Ruleset is the versionable pattern/weight table the engine scores with.
// Patterns are matched case-insensitively as substrings; each distinct
// pattern counts at most once per message regardless of repetitions.
type Ruleset struct {
	Version string

	UrgencyPatterns   []string
	AuthorityPatterns []string
	SecrecyPatterns   []string
	PaymentPatterns   []string
	MetaPatterns      []string

	// Per-category weights. Secrecy/bypass language weighs highest,
	// then authority impersonation, then the rest.
	UrgencyWeight   int
	AuthorityWeight int
	SecrecyWeight   int
	PaymentWeight   int
	MetaWeight      int

	// Amount tiers, checked highest first. An amount at or above a
	// tier's threshold contributes that tier's points.
	AmountTiers []AmountTier
}

// AmountTier maps a minimum parsed amount to bonus points.
type AmountTier struct {
	Threshold float64
	Points    int
}

// DefaultRuleset returns the production pattern tables.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		Version: "2024.1",

		UrgencyPatterns: []string{
			"urgent",
			"immediately",
			"asap",
			"right now",
			"today",
			"within the hour",
			"cannot wait",
			"do not delay",
		},
		AuthorityPatterns: []string{
			"ceo",
			"cfo",
			"director",
			"vp",
			"vice president",
			"chairman",
			"board",
			"executive",
			"senior manager",
		},
		SecrecyPatterns: []string{
			"confidential",
			"do not tell",
			"do not share",
			"keep this between us",
			"secret",
			"off the record",
		},
		PaymentPatterns: []string{
			"wire",
			"bank transfer",
			"account number",
			"routing number",
			"swift",
			"iban",
			"crypto",
			"bitcoin",
			"gift cards",
			"prepaid cards",
		},
		MetaPatterns: []string{
			"new account",
			"change of bank details",
			"different account",
			"overdue invoice",
			"update beneficiary",
		},

		UrgencyWeight:   8,
		AuthorityWeight: 10,
		SecrecyWeight:   12,
		PaymentWeight:   7,
		MetaWeight:      9,

		AmountTiers: []AmountTier{
			{Threshold: 100000, Points: 30},
			{Threshold: 20000, Points: 20},
			{Threshold: 5000, Points: 10},
		},
	}
}
