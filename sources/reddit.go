package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cryptovibes/cryptovibes/fetcher"
	"github.com/cryptovibes/cryptovibes/sentiment"
	"github.com/cryptovibes/cryptovibes/utils"
)

// redditPause is the gap between per-subreddit requests. Reddit has no hard
// documented limit for the public JSON endpoints but bans bursty clients.
const redditPause = 500 * time.Millisecond

// browserUA gets the public JSON endpoints to answer; the default Go
// user-agent is blocked outright.
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// RedditAdapter reads subreddit posts through the public JSON endpoints,
// no API registration needed. Each subreddit is searched for the query
// first; when the search comes back empty the adapter falls back to the
// hot listing filtered by substring match.
type RedditAdapter struct {
	Client  *fetcher.Client
	Scorer  sentiment.Scorer
	BaseURL string
	Pause   time.Duration
}

// NewRedditAdapter creates the adapter against reddit.com.
func NewRedditAdapter(client *fetcher.Client, scorer sentiment.Scorer) *RedditAdapter {
	return &RedditAdapter{
		Client:  client,
		Scorer:  scorer,
		BaseURL: "https://www.reddit.com",
		Pause:   redditPause,
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				Selftext   string  `json:"selftext"`
				Permalink  string  `json:"permalink"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch collects posts across the given subreddits, dividing the limit
// evenly with a per-subreddit floor. Partial results are returned even when
// some subreddits fail; the failure count lands in the status.
func (a *RedditAdapter) Fetch(ctx context.Context, query string, subs []string, limit int) *FetchResult {
	if limit == 0 {
		return Disabled()
	}

	perSub := limit
	if len(subs) > 0 {
		perSub = limit / len(subs)
		if perSub < 10 {
			perSub = 10
		}
	}

	headers := map[string]string{"User-Agent": browserUA}

	var items []Item
	var failed int

	for i, sub := range subs {
		if i > 0 {
			select {
			case <-ctx.Done():
				failed += len(subs) - i
				return redditResult(items, failed)
			case <-time.After(a.Pause):
			}
		}

		posts, okSub := a.fetchSub(ctx, sub, query, perSub, headers)
		if !okSub {
			failed++
			continue
		}

		for _, post := range posts.Data.Children {
			p := post.Data
			text := p.Title + " " + p.Selftext

			// Substring filter keeps off-topic hot posts out; it also runs
			// on search results for parity with the dashboard's numbers.
			if !strings.Contains(strings.ToLower(text), strings.ToLower(query)) {
				continue
			}

			ts, _ := utils.ParseDate(p.CreatedUTC)
			items = append(items, newItem(ctx, a.Scorer, SourceReddit,
				p.Title, text, "https://reddit.com"+p.Permalink, ts))

			if len(items) >= limit {
				break
			}
		}

		if len(items) >= limit {
			break
		}
	}

	return redditResult(items, failed)
}

func redditResult(items []Item, failed int) *FetchResult {
	if len(items) == 0 {
		return NoData("⚠️ No posts found (try broader terms)")
	}

	status := fmt.Sprintf("✅ %d posts", len(items))
	if failed > 0 {
		status += fmt.Sprintf(" (⚠️ %d subs failed)", failed)
	}

	return ok(items, status)
}

// fetchSub queries one subreddit: search first, hot listing as fallback.
func (a *RedditAdapter) fetchSub(ctx context.Context, sub, query string, perSub int, headers map[string]string) (*redditListing, bool) {
	searchParams := url.Values{
		"q":           {query},
		"sort":        {"new"},
		"limit":       {strconv.Itoa(perSub)},
		"restrict_sr": {"true"},
		"t":           {"month"},
	}

	res, okResp := a.Client.Get(ctx, fmt.Sprintf("%s/r/%s/search.json", a.BaseURL, sub), searchParams, headers)
	if okResp {
		var listing redditListing
		if err := json.Unmarshal(res.Body, &listing); err == nil && len(listing.Data.Children) > 0 {
			return &listing, true
		}
	} else {
		return nil, false
	}

	// Search answered but matched nothing: fall back to the hot listing.
	hotParams := url.Values{"limit": {strconv.Itoa(perSub)}}
	res, okResp = a.Client.Get(ctx, fmt.Sprintf("%s/r/%s/hot.json", a.BaseURL, sub), hotParams, headers)
	if !okResp {
		return &redditListing{}, true
	}

	var listing redditListing
	if err := json.Unmarshal(res.Body, &listing); err != nil {
		return &redditListing{}, true
	}

	return &listing, true
}
