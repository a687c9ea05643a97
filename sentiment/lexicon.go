package sentiment

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// LexiconScorer is the default offline scorer: a compact weighted lexicon
// with negation and booster handling, normalized into (-1, 1). It exists so
// the pipeline works without any LLM credentials; deployments that want
// higher quality plug in OpenAIScorer or GeminiScorer instead.
type LexiconScorer struct{}

// NewLexiconScorer creates the default lexicon scorer.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

// normAlpha dampens the raw weight sum; with a handful of hits the score
// stays well inside (-1, 1), a wall of superlatives saturates towards ±1.
const normAlpha = 15.0

// Score implements Scorer. It never fails and ignores the context.
func (s *LexiconScorer) Score(_ context.Context, text string) float64 {
	tokens := tokenize(text)

	var sum float64
	for i, tok := range tokens {
		weight, ok := lexicon[tok]
		if !ok {
			continue
		}

		if i > 0 {
			prev := tokens[i-1]
			if negators[prev] {
				// A negated term flips and weakens: "not great" reads
				// mildly negative, not as the mirror of "great".
				weight = -weight * 0.74
			} else if boost, ok := boosters[prev]; ok {
				weight *= 1 + boost
			}
		}

		sum += weight
	}

	return normalize(sum)
}

func normalize(sum float64) float64 {
	score := sum / math.Sqrt(sum*sum+normAlpha)
	return math.Max(-1, math.Min(1, score))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "without": true, "neither": true,
	"isn't": true, "wasn't": true, "aren't": true, "don't": true, "doesn't": true,
	"didn't": true, "won't": true, "can't": true, "cannot": true, "ain't": true,
}

var boosters = map[string]float64{
	"very": 0.3, "extremely": 0.5, "hugely": 0.4, "massively": 0.4,
	"really": 0.2, "super": 0.3, "absolutely": 0.4, "incredibly": 0.4,
	"slightly": -0.3, "somewhat": -0.2, "barely": -0.4,
}

// lexicon holds term weights tuned for crypto-market chatter. General
// sentiment terms carry standard weights; market slang ("moon", "rug") is
// weighted by how strongly it signals direction in practice.
var lexicon = map[string]float64{
	// positive - general
	"good": 1.9, "great": 3.1, "excellent": 3.2, "amazing": 2.8, "awesome": 3.1,
	"strong": 2.3, "win": 2.8, "winning": 2.8, "success": 2.7, "successful": 2.7,
	"growth": 2.4, "grow": 2.2, "growing": 2.2, "opportunity": 2.0, "optimistic": 2.4,
	"confident": 2.2, "love": 3.2, "best": 3.2, "solid": 2.1, "healthy": 1.9,
	"promising": 2.3, "improve": 2.1, "improved": 2.1, "record": 1.8, "up": 1.3,
	"higher": 1.5, "rising": 1.8, "rise": 1.7, "positive": 2.3, "happy": 2.7,

	// positive - market slang
	"bullish": 3.0, "bull": 2.2, "moon": 2.8, "mooning": 3.0, "pump": 2.2,
	"pumping": 2.4, "surge": 2.5, "surged": 2.5, "rally": 2.4, "rallies": 2.4,
	"soar": 2.7, "soars": 2.7, "soaring": 2.7, "gain": 2.1, "gains": 2.1,
	"profit": 2.3, "profits": 2.3, "ath": 2.9, "breakout": 2.4, "adoption": 2.2,
	"partnership": 2.0, "upgrade": 1.9, "accumulate": 1.7, "undervalued": 1.8,
	"hodl": 1.5, "buy": 1.4, "buying": 1.4, "support": 1.2, "recovery": 2.0,
	"rebound": 2.1, "outperform": 2.3, "breakthrough": 2.4, "milestone": 1.9,

	// negative - general
	"bad": -2.5, "terrible": -3.1, "awful": -3.0, "horrible": -3.0, "weak": -1.9,
	"lose": -2.4, "losing": -2.4, "loss": -2.4, "losses": -2.4, "fail": -2.6,
	"failed": -2.6, "failure": -2.6, "risk": -1.5, "risky": -1.7, "worry": -1.9,
	"worried": -1.9, "fear": -2.2, "afraid": -2.1, "panic": -2.8, "uncertain": -1.6,
	"uncertainty": -1.6, "down": -1.3, "lower": -1.5, "falling": -1.8, "fall": -1.6,
	"drop": -1.7, "dropped": -1.7, "negative": -2.3, "warning": -1.8, "worst": -3.2,
	"problem": -1.9, "trouble": -2.0, "doubt": -1.6,

	// negative - market slang
	"bearish": -3.0, "bear": -2.0, "dump": -2.4, "dumping": -2.6, "crash": -3.0,
	"crashed": -3.0, "crashing": -3.1, "plunge": -2.8, "plunged": -2.8,
	"plummet": -2.9, "selloff": -2.4, "scam": -3.2, "rug": -3.0, "rugpull": -3.3,
	"hack": -2.7, "hacked": -2.9, "exploit": -2.5, "exploited": -2.7, "fud": -1.9,
	"fraud": -3.1, "bankruptcy": -3.0, "bankrupt": -3.0, "insolvent": -2.8,
	"lawsuit": -2.2, "sec": -0.8, "liquidation": -2.4, "liquidated": -2.5,
	"capitulation": -2.6, "bubble": -1.8, "ponzi": -3.2, "delisted": -2.6,
	"sell": -1.2, "selling": -1.3, "resistance": -0.9, "correction": -1.5,
	"dip": -1.1, "overvalued": -1.8, "underperform": -2.1,
}
