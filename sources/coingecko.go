package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cryptovibes/cryptovibes/fetcher"
)

// coinIDs maps common ticker symbols to CoinGecko coin ids so the frequent
// lookups skip the /search round trip.
var coinIDs = map[string]string{
	"btc":   "bitcoin",
	"eth":   "ethereum",
	"sol":   "solana",
	"ada":   "cardano",
	"dot":   "polkadot",
	"avax":  "avalanche-2",
	"matic": "matic-network",
	"link":  "chainlink",
	"xrp":   "ripple",
	"doge":  "dogecoin",
	"shib":  "shiba-inu",
	"ltc":   "litecoin",
	"atom":  "cosmos",
	"uni":   "uniswap",
	"near":  "near",
	"apt":   "aptos",
	"arb":   "arbitrum",
	"op":    "optimism",
}

// CoinData holds the market snapshot for one coin.
type CoinData struct {
	Name             string  `json:"name"`
	Symbol           string  `json:"symbol"`
	ID               string  `json:"id"`
	PriceUSD         float64 `json:"price_usd"`
	MarketCapUSD     float64 `json:"market_cap_usd"`
	Volume24hUSD     float64 `json:"volume_24h_usd"`
	PriceChange24hPc float64 `json:"price_change_24h_pc"`
}

// PriceClient resolves a token query to a CoinGecko coin and fetches its
// market data. Separate from the sentiment adapters: its output is a single
// structured record, not a batch of scored items.
type PriceClient struct {
	Client  *fetcher.Client
	BaseURL string
}

// NewPriceClient creates the client against api.coingecko.com.
func NewPriceClient(client *fetcher.Client) *PriceClient {
	return &PriceClient{
		Client:  client,
		BaseURL: "https://api.coingecko.com/api/v3",
	}
}

type geckoSearchResponse struct {
	Coins []struct {
		ID string `json:"id"`
	} `json:"coins"`
}

type geckoCoinResponse struct {
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	ID         string `json:"id"`
	MarketData struct {
		CurrentPrice struct {
			USD float64 `json:"usd"`
		} `json:"current_price"`
		MarketCap struct {
			USD float64 `json:"usd"`
		} `json:"market_cap"`
		TotalVolume struct {
			USD float64 `json:"usd"`
		} `json:"total_volume"`
		PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	} `json:"market_data"`
}

// Fetch resolves the query and returns the coin's market data with a
// diagnostic status. A nil CoinData means the lookup produced nothing usable.
func (c *PriceClient) Fetch(ctx context.Context, query string) (*CoinData, string) {
	id, status := c.resolveID(ctx, query)
	if id == "" {
		return nil, status
	}

	params := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"community_data": {"false"},
		"developer_data": {"false"},
	}

	res, err := c.Client.Do(ctx, fmt.Sprintf("%s/coins/%s", c.BaseURL, id), params, nil)
	if err != nil {
		return nil, fmt.Sprintf("❌ Error: %s", err)
	}
	if res.StatusCode == http.StatusTooManyRequests {
		return nil, "⚠️ Rate limit reached (try again shortly)"
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Sprintf("❌ API error: %d", res.StatusCode)
	}

	var parsed geckoCoinResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return nil, fmt.Sprintf("❌ Error: %s", err)
	}

	data := &CoinData{
		Name:             parsed.Name,
		Symbol:           strings.ToUpper(parsed.Symbol),
		ID:               parsed.ID,
		PriceUSD:         parsed.MarketData.CurrentPrice.USD,
		MarketCapUSD:     parsed.MarketData.MarketCap.USD,
		Volume24hUSD:     parsed.MarketData.TotalVolume.USD,
		PriceChange24hPc: parsed.MarketData.PriceChangePercentage24h,
	}

	return data, fmt.Sprintf("✅ %s ($%s)", data.Name, data.Symbol)
}

// resolveID maps the query to a coin id: static ticker map first, /search
// second. The empty id carries a status explaining the miss.
func (c *PriceClient) resolveID(ctx context.Context, query string) (string, string) {
	if id, found := coinIDs[strings.ToLower(query)]; found {
		return id, ""
	}

	res, err := c.Client.Do(ctx, c.BaseURL+"/search", url.Values{"query": {query}}, nil)
	if err != nil {
		return "", fmt.Sprintf("❌ Error: %s", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Sprintf("❌ API error: %d", res.StatusCode)
	}

	var parsed geckoSearchResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return "", fmt.Sprintf("❌ Error: %s", err)
	}
	if len(parsed.Coins) == 0 {
		return "", "⚠️ Coin not found"
	}

	return parsed.Coins[0].ID, ""
}
