package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cryptovibes/cryptovibes/fetcher"
	"github.com/cryptovibes/cryptovibes/scout"
	"github.com/cryptovibes/cryptovibes/sentiment"
	"github.com/cryptovibes/cryptovibes/utils"
)

const (
	twitterAPIHost    = "twitter154.p.rapidapi.com"
	twitterAPIKeyName = "RAPIDAPI_KEY"
)

// TwitterAPIAdapter fetches tweets through the RapidAPI twitter154 scraper.
// Paid alternative to the Nitter mirrors: reliable, but rate limited on the
// shared free-tier key.
type TwitterAPIAdapter struct {
	Client  *fetcher.Client
	Scorer  sentiment.Scorer
	Creds   *scout.Resolver
	BaseURL string
}

// NewTwitterAPIAdapter creates the adapter against the RapidAPI host.
func NewTwitterAPIAdapter(client *fetcher.Client, scorer sentiment.Scorer, creds *scout.Resolver) *TwitterAPIAdapter {
	return &TwitterAPIAdapter{
		Client:  client,
		Scorer:  scorer,
		Creds:   creds,
		BaseURL: "https://" + twitterAPIHost + "/search/search",
	}
}

type twitterSearchResponse struct {
	Results []struct {
		Text         string        `json:"text"`
		TweetID      string        `json:"tweet_id"`
		CreationDate utils.Datable `json:"creation_date"`
	} `json:"results"`
}

// Fetch searches top tweets for the query. An explicit userKey overrides the
// shared key resolution.
func (a *TwitterAPIAdapter) Fetch(ctx context.Context, query string, limit int, userKey string) *FetchResult {
	if limit == 0 {
		return Disabled()
	}

	key := a.Creds.Resolve(twitterAPIKeyName, userKey)
	if key == "" {
		return NoCredentials()
	}

	params := url.Values{
		"query":    {query},
		"section":  {"top"},
		"limit":    {strconv.Itoa(limit)},
		"language": {"en"},
	}
	headers := map[string]string{
		"X-RapidAPI-Key":  key,
		"X-RapidAPI-Host": twitterAPIHost,
	}

	res, err := a.Client.Do(ctx, a.BaseURL, params, headers)
	if err != nil {
		return Failed(err)
	}
	if res.StatusCode == http.StatusTooManyRequests {
		return RateLimited()
	}
	if res.StatusCode != http.StatusOK {
		return apiErrorStatus(res.StatusCode)
	}

	var parsed twitterSearchResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return Failed(err)
	}

	var items []Item
	for _, tweet := range parsed.Results {
		if len(items) >= limit {
			break
		}
		ts, _ := utils.ParseDate(tweet.CreationDate)
		items = append(items, newItem(ctx, a.Scorer, SourceTwitterAPI,
			tweet.Text, tweet.Text,
			fmt.Sprintf("https://twitter.com/i/status/%s", tweet.TweetID),
			ts,
		))
	}

	if len(items) == 0 {
		return NoData("⚠️ No tweets found")
	}

	return ok(items, fmt.Sprintf("✅ %d tweets", len(items)))
}
