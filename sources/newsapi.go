package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cryptovibes/cryptovibes/fetcher"
	"github.com/cryptovibes/cryptovibes/scout"
	"github.com/cryptovibes/cryptovibes/sentiment"
	"github.com/cryptovibes/cryptovibes/utils"
)

const newsAPIKeyName = "NEWSAPI_KEY"

// NewsAPIAdapter fetches general news from newsapi.org. Keyed source with a
// tight free-tier quota, so 429 gets its own status.
type NewsAPIAdapter struct {
	Client  *fetcher.Client
	Scorer  sentiment.Scorer
	Creds   *scout.Resolver
	BaseURL string
}

// NewNewsAPIAdapter creates the adapter against newsapi.org.
func NewNewsAPIAdapter(client *fetcher.Client, scorer sentiment.Scorer, creds *scout.Resolver) *NewsAPIAdapter {
	return &NewsAPIAdapter{
		Client:  client,
		Scorer:  scorer,
		Creds:   creds,
		BaseURL: "https://newsapi.org/v2/everything",
	}
}

type newsAPIResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Fetch pulls articles matching the query from the lookback window.
func (a *NewsAPIAdapter) Fetch(ctx context.Context, query string, days, limit int, userKey string) *FetchResult {
	if limit == 0 {
		return Disabled()
	}

	key := a.Creds.Resolve(newsAPIKeyName, userKey)
	if key == "" {
		return NoCredentials()
	}

	start := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	params := url.Values{
		"q":        {query},
		"from":     {start},
		"sortBy":   {"publishedAt"},
		"language": {"en"},
		"pageSize": {strconv.Itoa(limit)},
	}

	res, err := a.Client.Do(ctx, a.BaseURL, params, map[string]string{"X-Api-Key": key})
	if err != nil {
		return Failed(err)
	}
	if res.StatusCode == http.StatusTooManyRequests {
		return RateLimited()
	}
	if res.StatusCode != http.StatusOK {
		return apiErrorStatus(res.StatusCode)
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return Failed(err)
	}

	var items []Item
	for _, article := range parsed.Articles {
		if len(items) >= limit {
			break
		}
		text := article.Title + " " + article.Description
		ts, _ := utils.ParseDate(article.PublishedAt)
		items = append(items, newItem(ctx, a.Scorer, SourceNews, article.Title, text, article.URL, ts))
	}

	if len(items) == 0 {
		return NoData("⚠️ No articles found")
	}

	return ok(items, fmt.Sprintf("✅ %d articles", len(items)))
}
