// Package scoring combines the deterministic heuristic score with the
// optional model assessment into a final score and risk level.
package scoring

import (
	"math"

	"github.com/mbd888/payguard/internal/classifier"
)

// Level buckets a final score for human consumption.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// Thresholds are inclusive on the lower edge: 40.0 is MEDIUM, 70.0 is HIGH.
const (
	mediumThreshold = 40
	highThreshold   = 70
)

// LevelFor maps a final score to its risk level. The score is clamped
// first, so callers never see an out-of-range level.
func LevelFor(score float64) Level {
	score = clamp(score)
	switch {
	case score >= highThreshold:
		return LevelHigh
	case score >= mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Blend produces the final score from the heuristic base score and the
// model assessment. When the assessment is absent, or its overall score
// is missing or not a usable number, the heuristic score stands alone.
// The result is always within [0, 100].
func Blend(baseScore int, ai *classifier.Assessment) (float64, Level) {
	final := float64(baseScore)
	if ai != nil && ai.OverallRiskScore != nil {
		s := *ai.OverallRiskScore
		if !math.IsNaN(s) && !math.IsInf(s, 0) {
			final = (float64(baseScore) + s) / 2
		}
	}
	final = clamp(final)
	return final, LevelFor(final)
}

func clamp(score float64) float64 {
	if score < 0 || math.IsNaN(score) {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
