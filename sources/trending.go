package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cryptovibes/cryptovibes/fetcher"
)

// trendingScore is the flat score assigned to every trending entry. Making a
// trending list is bullish by definition; there is no text to score.
const trendingScore = 0.3

// TrendingAdapter lists the coins currently trending on CoinGecko search.
// Toggled by a feature flag rather than a limit: the provider returns a fixed
// top-7 regardless.
type TrendingAdapter struct {
	Client  *fetcher.Client
	BaseURL string
}

// NewTrendingAdapter creates the adapter against api.coingecko.com.
func NewTrendingAdapter(client *fetcher.Client) *TrendingAdapter {
	return &TrendingAdapter{
		Client:  client,
		BaseURL: "https://api.coingecko.com/api/v3/search/trending",
	}
}

type trendingResponse struct {
	Coins []struct {
		Item struct {
			Name          string `json:"name"`
			Symbol        string `json:"symbol"`
			MarketCapRank int    `json:"market_cap_rank"`
		} `json:"item"`
	} `json:"coins"`
}

// Fetch returns the trending list as fixed-score items.
func (a *TrendingAdapter) Fetch(ctx context.Context, enabled bool) *FetchResult {
	if !enabled {
		return Disabled()
	}

	res, err := a.Client.Do(ctx, a.BaseURL, nil, nil)
	if err != nil {
		return Failed(err)
	}
	if res.StatusCode == http.StatusTooManyRequests {
		return RateLimited()
	}
	if res.StatusCode != http.StatusOK {
		return apiErrorStatus(res.StatusCode)
	}

	var parsed trendingResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return Failed(err)
	}

	now := time.Now().UTC()

	var items []Item
	for _, coin := range parsed.Coins {
		c := coin.Item
		title := fmt.Sprintf("Trending: %s (%s)", c.Name, c.Symbol)
		text := fmt.Sprintf("%s is trending on CoinGecko, market cap rank #%d", c.Name, c.MarketCapRank)
		items = append(items, Item{
			Source: SourceTrending,
			Title:  title,
			Text:   text,
			URL:    "https://www.coingecko.com/en/search_redirect?query=" + c.Symbol,
			Time:   now,
			Score:  trendingScore,
			Label:  "positive",
		})
	}

	if len(items) == 0 {
		return NoData("⚠️ Trending list empty")
	}

	return ok(items, fmt.Sprintf("✅ %d trending coins", len(items)))
}
