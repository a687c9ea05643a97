package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cryptovibes/cryptovibes/fetcher"
	"github.com/cryptovibes/cryptovibes/scout"
	"github.com/cryptovibes/cryptovibes/sentiment"
	"github.com/cryptovibes/cryptovibes/utils"
	"github.com/samber/lo"
)

const cryptoPanicKeyName = "CRYPTOPANIC_KEY"

// CryptoPanicAdapter fetches curated crypto headlines from cryptopanic.com.
// The v1 API works with the literal token "free" at a reduced quota, so a
// missing key degrades the adapter rather than disabling it.
type CryptoPanicAdapter struct {
	Client  *fetcher.Client
	Scorer  sentiment.Scorer
	Creds   *scout.Resolver
	BaseURL string
}

// NewCryptoPanicAdapter creates the adapter against cryptopanic.com.
func NewCryptoPanicAdapter(client *fetcher.Client, scorer sentiment.Scorer, creds *scout.Resolver) *CryptoPanicAdapter {
	return &CryptoPanicAdapter{
		Client:  client,
		Scorer:  scorer,
		Creds:   creds,
		BaseURL: "https://cryptopanic.com/api/free/v1/posts/",
	}
}

type cryptoPanicResponse struct {
	Results []cryptoPanicPost `json:"results"`
}

type cryptoPanicPost struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// Fetch pulls recent posts. Tickers CryptoPanic knows get a server-side
// currency filter; everything else is filtered by title substring, with a
// second unfiltered request as fallback when the filter matches nothing.
func (a *CryptoPanicAdapter) Fetch(ctx context.Context, query string, limit int, userKey string) *FetchResult {
	if limit == 0 {
		return Disabled()
	}

	token := a.Creds.Resolve(cryptoPanicKeyName, userKey)
	if token == "" {
		token = "free"
	}

	upper := strings.ToUpper(query)
	keyed := lo.Contains(KnownCurrencies, upper)

	params := url.Values{
		"auth_token": {token},
		"public":     {"true"},
		"kind":       {"news"},
		"filter":     {"rising"},
	}
	if keyed {
		params.Set("currencies", upper)
	}

	posts, result := a.request(ctx, params)
	if result != nil {
		return result
	}

	if !keyed {
		q := strings.ToLower(query)
		posts = lo.Filter(posts, func(post cryptoPanicPost, _ int) bool {
			return strings.Contains(strings.ToLower(post.Title), q)
		})
	}

	// Filter matched nothing: retry the relaxed request (news kind only,
	// no rising filter, no currency scoping) so the source still
	// contributes general market headlines.
	if len(posts) == 0 {
		params.Del("currencies")
		params.Del("filter")
		posts, result = a.request(ctx, params)
		if result != nil {
			return result
		}
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}

	var items []Item
	for _, post := range posts {
		ts, _ := utils.ParseDate(post.PublishedAt)
		items = append(items, newItem(ctx, a.Scorer, SourceCryptoPanic, post.Title, post.Title, post.URL, ts))
	}

	if len(items) == 0 {
		return NoData("⚠️ No posts found")
	}

	return ok(items, fmt.Sprintf("✅ %d posts", len(items)))
}

// request performs one posts call; a non-nil *FetchResult is a terminal
// failure the caller must return as-is.
func (a *CryptoPanicAdapter) request(ctx context.Context, params url.Values) ([]cryptoPanicPost, *FetchResult) {
	res, err := a.Client.Do(ctx, a.BaseURL, params, nil)
	if err != nil {
		return nil, Failed(err)
	}
	if res.StatusCode == http.StatusTooManyRequests {
		return nil, RateLimited()
	}
	if res.StatusCode != http.StatusOK {
		return nil, apiErrorStatus(res.StatusCode)
	}

	var parsed cryptoPanicResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return nil, Failed(err)
	}

	return parsed.Results, nil
}
