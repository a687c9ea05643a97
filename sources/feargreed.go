package sources

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cryptovibes/cryptovibes/fetcher"
)

// Index is the market-wide fear & greed reading from alternative.me,
// value 0 (extreme fear) to 100 (extreme greed).
type Index struct {
	Value          int    `json:"value"`
	Classification string `json:"classification"`
	Timestamp      int64  `json:"timestamp"`
}

// FearGreedClient fetches the current index. Market-wide context, not
// token-specific, so it sits outside the sentiment aggregate.
type FearGreedClient struct {
	Client  *fetcher.Client
	BaseURL string
}

// NewFearGreedClient creates the client against api.alternative.me.
func NewFearGreedClient(client *fetcher.Client) *FearGreedClient {
	return &FearGreedClient{
		Client:  client,
		BaseURL: "https://api.alternative.me/fng/",
	}
}

type fearGreedResponse struct {
	Data []struct {
		Value               string `json:"value"`
		ValueClassification string `json:"value_classification"`
		Timestamp           string `json:"timestamp"`
	} `json:"data"`
}

// Fetch returns the latest index reading, or nil with a status on failure.
func (c *FearGreedClient) Fetch(ctx context.Context) (*Index, string) {
	res, okResp := c.Client.Get(ctx, c.BaseURL, nil, nil)
	if !okResp {
		return nil, "❌ Index unavailable"
	}

	var parsed fearGreedResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil || len(parsed.Data) == 0 {
		return nil, "❌ Index unavailable"
	}

	entry := parsed.Data[0]
	value, err := strconv.Atoi(entry.Value)
	if err != nil {
		return nil, "❌ Index unavailable"
	}

	// Timestamp arrives as a string of unix seconds.
	ts, _ := strconv.ParseInt(entry.Timestamp, 10, 64)

	return &Index{
		Value:          value,
		Classification: entry.ValueClassification,
		Timestamp:      ts,
	}, "✅ " + entry.ValueClassification
}
