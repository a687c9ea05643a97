package sources

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cryptovibes/cryptovibes/fetcher"
	"github.com/cryptovibes/cryptovibes/sentiment"
	"github.com/cryptovibes/cryptovibes/utils"
	"github.com/mmcdole/gofeed"
)

// DefaultNitterInstances is the ordered list of known working mirrors.
// Instances die and resurrect weekly; the adapter walks the list in order
// and stops at the first one that yields any items.
var DefaultNitterInstances = []string{
	"nitter.poast.org",
	"nitter.privacydev.net",
	"nitter.woodland.cafe",
	"nitter.lucabased.xyz",
	"nitter.mint.lgbt",
	"xcancel.com",
}

// NitterAdapter fetches crypto-twitter posts from Nitter mirror instances
// via their RSS search endpoint. Free but unreliable.
type NitterAdapter struct {
	Client    *fetcher.Client
	Scorer    sentiment.Scorer
	Instances []string
	// Scheme exists so tests can point an instance at a plain-HTTP server.
	Scheme string
}

// NewNitterAdapter creates the adapter with the default mirror list.
func NewNitterAdapter(client *fetcher.Client, scorer sentiment.Scorer) *NitterAdapter {
	return &NitterAdapter{
		Client:    client,
		Scorer:    scorer,
		Instances: DefaultNitterInstances,
		Scheme:    "https",
	}
}

// Fetch searches each mirror in order until one yields items.
func (a *NitterAdapter) Fetch(ctx context.Context, query string, limit int) *FetchResult {
	if limit == 0 {
		return Disabled()
	}

	params := url.Values{
		"q": {query + " lang:en"},
		"f": {"tweets"},
	}

	for _, instance := range a.Instances {
		res, okResp := a.Client.Get(ctx, fmt.Sprintf("%s://%s/search/rss", a.Scheme, instance), params, nil)
		if !okResp {
			continue
		}

		feed, err := gofeed.NewParser().ParseString(string(res.Body))
		if err != nil {
			continue
		}

		var items []Item
		for _, entry := range feed.Items {
			text := utils.StripHTML(entry.Description)
			if len(text) < minFragmentLen {
				continue
			}

			ts, _ := utils.ParseDate(entry.Published)
			items = append(items, newItem(ctx, a.Scorer, SourceNitter, text, text, entry.Link, ts))
			if len(items) >= limit {
				break
			}
		}

		if len(items) > 0 {
			return ok(items, fmt.Sprintf("✅ %d tweets", len(items)))
		}
	}

	return FailedStatus("❌ All instances down")
}
