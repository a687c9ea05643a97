package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cryptovibes/cryptovibes/fetcher"
	"github.com/cryptovibes/cryptovibes/sentiment"
	"github.com/cryptovibes/cryptovibes/utils"
	"github.com/samber/lo"
)

// CryptoCompareAdapter fetches crypto news from the free CryptoCompare feed.
// The feed is not query-addressable, so filtering happens client-side with a
// fallback to the general feed when nothing matches.
type CryptoCompareAdapter struct {
	Client  *fetcher.Client
	Scorer  sentiment.Scorer
	BaseURL string
}

// NewCryptoCompareAdapter creates the adapter against min-api.cryptocompare.com.
func NewCryptoCompareAdapter(client *fetcher.Client, scorer sentiment.Scorer) *CryptoCompareAdapter {
	return &CryptoCompareAdapter{
		Client:  client,
		Scorer:  scorer,
		BaseURL: "https://min-api.cryptocompare.com/data/v2/news/",
	}
}

type cryptoCompareResponse struct {
	Data []cryptoCompareArticle `json:"Data"`
}

type cryptoCompareArticle struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	URL         string `json:"url"`
	PublishedOn int64  `json:"published_on"`
}

// Fetch pulls the latest feed and filters it by the query.
func (a *CryptoCompareAdapter) Fetch(ctx context.Context, query string, limit int) *FetchResult {
	if limit == 0 {
		return Disabled()
	}

	res, err := a.Client.Do(ctx, a.BaseURL, url.Values{"lang": {"EN"}}, nil)
	if err != nil {
		return Failed(err)
	}
	if res.StatusCode != http.StatusOK {
		return apiErrorStatus(res.StatusCode)
	}

	var parsed cryptoCompareResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return Failed(err)
	}

	q := strings.ToLower(query)
	filtered := lo.Filter(parsed.Data, func(article cryptoCompareArticle, _ int) bool {
		return strings.Contains(strings.ToLower(article.Title), q) ||
			strings.Contains(strings.ToLower(article.Body), q)
	})

	// No token-specific matches: general crypto news still carries signal.
	if len(filtered) == 0 {
		filtered = parsed.Data
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	var items []Item
	for _, article := range filtered {
		text := article.Title + " " + utils.Truncate(article.Body, 200)
		ts, _ := utils.ParseDate(article.PublishedOn)
		items = append(items, newItem(ctx, a.Scorer, SourceCryptoCompare, article.Title, text, article.URL, ts))
	}

	if len(items) == 0 {
		return NoData("⚠️ No articles in the feed")
	}

	return ok(items, fmt.Sprintf("✅ %d articles", len(items)))
}
