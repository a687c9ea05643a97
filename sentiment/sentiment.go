// Package sentiment turns free text into a polarity score in [-1, 1] and a
// categorical label. The pipeline treats the scorer as a black box: adapters
// receive a Scorer explicitly and never reach for a package-level analyzer.
package sentiment

import "context"

// Label values derived from a score.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Threshold separating neutral from polarized scores.
const threshold = 0.05

// Scorer scores a piece of text with a compound polarity value in [-1, 1].
// Implementations must treat every failure as neutral (0): scoring is a
// best-effort signal, never a reason to fail an adapter.
type Scorer interface {
	Score(ctx context.Context, text string) float64
}

// Label maps a compound score to a categorical label. It is a pure function
// of the score: items must never store an inconsistent score/label pair.
func Label(score float64) string {
	switch {
	case score > threshold:
		return LabelPositive
	case score < -threshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}
