// Package sources contains one adapter per external data provider. Every
// adapter normalizes its provider's output into Item records and degrades
// every failure into an empty FetchResult with a diagnostic status. Nothing
// in this package panics or returns an error to the orchestrator.
package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/cryptovibes/cryptovibes/sentiment"
	"github.com/cryptovibes/cryptovibes/utils"
)

// Source identifies the origin adapter of an item.
type Source string

const (
	SourceNitter        Source = "ct_nitter"
	SourceTwitterAPI    Source = "ct_rapidapi"
	SourceReddit        Source = "reddit"
	SourceNews          Source = "news"
	SourceCryptoPanic   Source = "cryptopanic"
	SourceCryptoCompare Source = "cryptocompare"
	SourceCMC           Source = "cmc"
	SourceTrending      Source = "trending"
	SourcePrice         Source = "coingecko"
	SourceFearGreed     Source = "fear_greed"
)

// SentimentSources is the fixed ordered list of sources whose items feed the
// aggregate. Price and fear/greed are structurally different and excluded.
var SentimentSources = []Source{
	SourceNitter,
	SourceTwitterAPI,
	SourceReddit,
	SourceNews,
	SourceCryptoPanic,
	SourceCryptoCompare,
	SourceCMC,
	SourceTrending,
}

// KnownCurrencies are ticker symbols that providers with structured currency
// filters (CryptoPanic) accept as a filter parameter. Everything else falls
// back to client-side substring filtering.
var KnownCurrencies = []string{"BTC", "ETH", "AVAX", "SOL", "ADA", "DOT", "MATIC", "LINK"}

// minFragmentLen drops scraped fragments too short to carry any sentiment.
const minFragmentLen = 10

// titleLen is the display title budget.
const titleLen = 80

// Item is one unit of sentiment evidence from a source.
type Item struct {
	Source Source    `json:"source"`
	Title  string    `json:"title"`
	Text   string    `json:"text"`
	URL    string    `json:"url"`
	Time   time.Time `json:"dt"`
	Score  float64   `json:"compound"`
	Label  string    `json:"label"`
}

// State is the machine-readable outcome class of an adapter invocation.
// The human-readable Status string keeps the dashboard's ✅/⚠️/❌ markers,
// but callers must branch on State, never on string prefixes.
type State uint8

const (
	StateOK State = iota
	StateDisabled
	StateNoCredentials
	StateRateLimited
	StateFailed
	StateNoData
	StateTimeout
)

// FetchResult is the outcome of one adapter invocation.
// Invariant: Items is non-empty only when State == StateOK.
type FetchResult struct {
	Items  []Item `json:"items"`
	Status string `json:"status"`
	State  State  `json:"state"`
}

// OK reports whether the invocation produced usable items.
func (r *FetchResult) OK() bool {
	return r.State == StateOK
}

// StatusDisabled is the sentinel status for an intentionally skipped source.
const StatusDisabled = "Disabled"

func ok(items []Item, status string) *FetchResult {
	return &FetchResult{Items: items, Status: status, State: StateOK}
}

// Disabled is returned when the source's configured limit is zero.
func Disabled() *FetchResult {
	return &FetchResult{Status: StatusDisabled, State: StateDisabled}
}

// NoCredentials is returned by keyed adapters when no key resolves.
func NoCredentials() *FetchResult {
	return &FetchResult{Status: "⚠️ No API key (enable in sidebar)", State: StateNoCredentials}
}

// RateLimited is returned on HTTP 429 so callers can suggest a personal key.
func RateLimited() *FetchResult {
	return &FetchResult{Status: "⚠️ Rate limit reached (try your own key)", State: StateRateLimited}
}

// Failed converts a transport or parse error into a diagnostic result.
func Failed(err error) *FetchResult {
	return &FetchResult{Status: fmt.Sprintf("❌ Error: %s", utils.Truncate(err.Error(), 50)), State: StateFailed}
}

// FailedStatus builds a failure result with a provider-specific status.
func FailedStatus(status string) *FetchResult {
	return &FetchResult{Status: status, State: StateFailed}
}

// NoData is returned when the provider answered but nothing matched.
func NoData(status string) *FetchResult {
	return &FetchResult{Status: status, State: StateNoData}
}

// Timeout is recorded by the orchestrator for tasks that exceeded their
// deadline or panicked; adapters never produce it themselves.
func Timeout() *FetchResult {
	return &FetchResult{Status: "❌ Timeout/Error", State: StateTimeout}
}

// newItem builds a scored item. A zero timestamp defaults to fetch time.
func newItem(ctx context.Context, scorer sentiment.Scorer, src Source, title, text, url string, ts time.Time) Item {
	score := scorer.Score(ctx, text)
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return Item{
		Source: src,
		Title:  utils.Truncate(title, titleLen),
		Text:   text,
		URL:    url,
		Time:   ts,
		Score:  score,
		Label:  sentiment.Label(score),
	}
}

func apiErrorStatus(code int) *FetchResult {
	return FailedStatus(fmt.Sprintf("❌ API error: %d", code))
}
