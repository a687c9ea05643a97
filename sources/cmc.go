package sources

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cryptovibes/cryptovibes/fetcher"
	"github.com/cryptovibes/cryptovibes/sentiment"
	"github.com/cryptovibes/cryptovibes/utils"
)

// h3Pattern extracts headline blocks from the CoinMarketCap headlines page.
// The page is server-rendered with headlines in h3 tags; a full DOM parse
// buys nothing here since only the text content matters.
var h3Pattern = regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`)

// CMCAdapter scrapes headlines from the CoinMarketCap news page. No API key,
// no JSON, just markup, so the adapter is the most brittle of the set and is
// expected to degrade whenever the page layout changes.
type CMCAdapter struct {
	Client  *fetcher.Client
	Scorer  sentiment.Scorer
	BaseURL string
}

// NewCMCAdapter creates the adapter against coinmarketcap.com.
func NewCMCAdapter(client *fetcher.Client, scorer sentiment.Scorer) *CMCAdapter {
	return &CMCAdapter{
		Client:  client,
		Scorer:  scorer,
		BaseURL: "https://coinmarketcap.com/headlines/news/",
	}
}

// Fetch scrapes the headlines page and keeps lines mentioning the query.
func (a *CMCAdapter) Fetch(ctx context.Context, query string, limit int) *FetchResult {
	if limit == 0 {
		return Disabled()
	}

	res, okResp := a.Client.Get(ctx, a.BaseURL, nil, map[string]string{"User-Agent": browserUA})
	if !okResp {
		return FailedStatus("❌ Page unreachable")
	}

	q := strings.ToLower(query)

	var items []Item
	for _, match := range h3Pattern.FindAllStringSubmatch(string(res.Body), -1) {
		headline := utils.StripHTML(match[1])
		if len(headline) < minFragmentLen {
			continue
		}
		if !strings.Contains(strings.ToLower(headline), q) {
			continue
		}

		items = append(items, newItem(ctx, a.Scorer, SourceCMC, headline, headline, a.BaseURL, time.Time{}))
		if len(items) >= limit {
			break
		}
	}

	if len(items) == 0 {
		return NoData("⚠️ No matching headlines")
	}

	return ok(items, fmt.Sprintf("✅ %d headlines", len(items)))
}
