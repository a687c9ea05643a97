package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cryptovibes/cryptovibes/fetcher"
	"github.com/cryptovibes/cryptovibes/scout"
)

func testClient() *fetcher.Client {
	return fetcher.New(2 * time.Second)
}

func TestNewsAPIDisabledSkipsNetwork(t *testing.T) {
	// Nil client: a network call would panic, proving the short-circuit.
	adapter := &NewsAPIAdapter{Creds: scout.NewResolver("")}

	res := adapter.Fetch(context.Background(), "bitcoin", 7, 0, "")
	if res.State != StateDisabled {
		t.Fatalf("State = %d, want StateDisabled", res.State)
	}
}

func TestNewsAPIMissingKeySkipsNetwork(t *testing.T) {
	t.Setenv(newsAPIKeyName, "")
	adapter := &NewsAPIAdapter{Creds: scout.NewResolver("")}

	res := adapter.Fetch(context.Background(), "bitcoin", 7, 10, "")
	if res.State != StateNoCredentials {
		t.Fatalf("State = %d, want StateNoCredentials", res.State)
	}
}

func TestNewsAPIFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("q") != "bitcoin" {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		_, _ = w.Write([]byte(`{"articles":[
			{"title":"Bitcoin rallies hard","description":"strong gains","url":"https://n/1","publishedAt":"2024-01-15T10:00:00Z"},
			{"title":"Bitcoin dips","description":"a correction","url":"https://n/2","publishedAt":"2024-01-15T11:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	adapter := NewNewsAPIAdapter(testClient(), constScorer{score: 0.5}, scout.NewResolver(""))
	adapter.BaseURL = srv.URL

	res := adapter.Fetch(context.Background(), "bitcoin", 7, 10, "test-key")
	if !res.OK() {
		t.Fatalf("not OK: %s", res.Status)
	}
	if len(res.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(res.Items))
	}
	if res.Items[0].Source != SourceNews {
		t.Errorf("Source = %q", res.Items[0].Source)
	}
	if res.Items[0].Time.IsZero() {
		t.Error("publishedAt not parsed")
	}
}

func TestNewsAPIRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	adapter := NewNewsAPIAdapter(testClient(), constScorer{}, scout.NewResolver(""))
	adapter.BaseURL = srv.URL

	res := adapter.Fetch(context.Background(), "bitcoin", 7, 10, "k")
	if res.State != StateRateLimited {
		t.Fatalf("State = %d, want StateRateLimited", res.State)
	}
}

func TestCryptoCompareFilterAndFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Data":[
			{"title":"Solana upgrade ships","body":"validators updated","url":"https://c/1","published_on":1700000000},
			{"title":"Market roundup","body":"general news","url":"https://c/2","published_on":1700000100}
		]}`))
	}))
	defer srv.Close()

	adapter := NewCryptoCompareAdapter(testClient(), constScorer{})
	adapter.BaseURL = srv.URL

	// Query matches one article: only that one survives the filter.
	res := adapter.Fetch(context.Background(), "solana", 10)
	if !res.OK() || len(res.Items) != 1 {
		t.Fatalf("filtered: got %d items (%s)", len(res.Items), res.Status)
	}

	// Query matches nothing: the whole feed comes back as general signal.
	res = adapter.Fetch(context.Background(), "zebracoin", 10)
	if !res.OK() || len(res.Items) != 2 {
		t.Fatalf("fallback: got %d items (%s)", len(res.Items), res.Status)
	}
}

func TestCryptoPanicCurrencyFilter(t *testing.T) {
	var gotCurrencies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCurrencies = append(gotCurrencies, r.URL.Query().Get("currencies"))
		if r.URL.Query().Get("auth_token") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"results":[
			{"title":"BTC breaks resistance","url":"https://p/1","published_at":"2024-01-15T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	adapter := NewCryptoPanicAdapter(testClient(), constScorer{}, scout.NewResolver(""))
	adapter.BaseURL = srv.URL

	res := adapter.Fetch(context.Background(), "btc", 10, "")
	if !res.OK() {
		t.Fatalf("not OK: %s", res.Status)
	}
	if len(gotCurrencies) != 1 || gotCurrencies[0] != "BTC" {
		t.Errorf("currencies params = %v, want [BTC]", gotCurrencies)
	}
}

func TestCryptoPanicRequestShape(t *testing.T) {
	adapter := NewCryptoPanicAdapter(testClient(), constScorer{}, scout.NewResolver(""))
	if !strings.Contains(adapter.BaseURL, "/api/free/v1/posts/") {
		t.Fatalf("BaseURL = %s, want the free v1 posts endpoint", adapter.BaseURL)
	}

	var queries []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query())
		if len(queries) == 1 {
			_, _ = w.Write([]byte(`{"results":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[
			{"title":"Market roundup","url":"https://p/1","published_at":"2024-01-15T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	adapter.BaseURL = srv.URL

	res := adapter.Fetch(context.Background(), "btc", 10, "")
	if !res.OK() {
		t.Fatalf("not OK: %s", res.Status)
	}
	if len(queries) != 2 {
		t.Fatalf("calls = %d, want 2", len(queries))
	}

	// First request: rising news scoped to the ticker.
	first := queries[0]
	if first.Get("kind") != "news" || first.Get("filter") != "rising" || first.Get("currencies") != "BTC" {
		t.Errorf("first request params = %v", first)
	}

	// Empty result set relaxes the retry to plain news.
	second := queries[1]
	if second.Get("kind") != "news" || second.Get("filter") != "" || second.Get("currencies") != "" {
		t.Errorf("fallback request params = %v", second)
	}
}

func TestCryptoPanicSubstringFallback(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"results":[
			{"title":"Altcoin season watch","url":"https://p/1","published_at":"2024-01-15T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	adapter := NewCryptoPanicAdapter(testClient(), constScorer{}, scout.NewResolver(""))
	adapter.BaseURL = srv.URL

	// Unknown ticker, title does not match: the adapter retries unfiltered
	// and returns the general headlines.
	res := adapter.Fetch(context.Background(), "zebracoin", 10, "")
	if !res.OK() || len(res.Items) != 1 {
		t.Fatalf("got %d items (%s)", len(res.Items), res.Status)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestCMCScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<h3 class="headline"><a href="/x">Ethereum staking hits record high</a></h3>
			<h3>ETH</h3>
			<h3>Bitcoin miners expand capacity</h3>
		</body></html>`))
	}))
	defer srv.Close()

	adapter := NewCMCAdapter(testClient(), constScorer{})
	adapter.BaseURL = srv.URL

	res := adapter.Fetch(context.Background(), "ethereum", 10)
	if !res.OK() {
		t.Fatalf("not OK: %s", res.Status)
	}
	// "ETH" is under the fragment floor and "Bitcoin miners..." misses the
	// query; only the staking headline survives, with its markup stripped.
	if len(res.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(res.Items))
	}
	if res.Items[0].Title != "Ethereum staking hits record high" {
		t.Errorf("Title = %q", res.Items[0].Title)
	}
}

func TestTrendingFixedScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"coins":[
			{"item":{"name":"Pepe","symbol":"PEPE","market_cap_rank":40}},
			{"item":{"name":"Sui","symbol":"SUI","market_cap_rank":15}}
		]}`))
	}))
	defer srv.Close()

	adapter := NewTrendingAdapter(testClient())
	adapter.BaseURL = srv.URL

	res := adapter.Fetch(context.Background(), true)
	if !res.OK() || len(res.Items) != 2 {
		t.Fatalf("got %d items (%s)", len(res.Items), res.Status)
	}
	for _, item := range res.Items {
		if item.Score != trendingScore {
			t.Errorf("Score = %v, want %v", item.Score, trendingScore)
		}
		if item.Label != "positive" {
			t.Errorf("Label = %q, want positive", item.Label)
		}
	}
}

func TestTrendingDisabled(t *testing.T) {
	adapter := &TrendingAdapter{}
	res := adapter.Fetch(context.Background(), false)
	if res.State != StateDisabled {
		t.Fatalf("State = %d, want StateDisabled", res.State)
	}
}

func TestPriceClientStaticMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			t.Error("search called for a mapped ticker")
		}
		if r.URL.Path != "/coins/bitcoin" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"name":"Bitcoin","symbol":"btc","id":"bitcoin","market_data":{
			"current_price":{"usd":43000.5},
			"market_cap":{"usd":840000000000},
			"total_volume":{"usd":18000000000},
			"price_change_percentage_24h":-2.4
		}}`))
	}))
	defer srv.Close()

	client := NewPriceClient(testClient())
	client.BaseURL = srv.URL

	data, status := client.Fetch(context.Background(), "BTC")
	if data == nil {
		t.Fatalf("nil data: %s", status)
	}
	if data.Symbol != "BTC" || data.PriceUSD != 43000.5 || data.PriceChange24hPc != -2.4 {
		t.Errorf("unexpected data: %+v", data)
	}
}

func TestPriceClientSearchFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			_, _ = w.Write([]byte(`{"coins":[{"id":"injective-protocol"}]}`))
		case "/coins/injective-protocol":
			_, _ = w.Write([]byte(`{"name":"Injective","symbol":"inj","id":"injective-protocol","market_data":{
				"current_price":{"usd":32.1},"market_cap":{"usd":1},"total_volume":{"usd":1},
				"price_change_percentage_24h":5.0}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewPriceClient(testClient())
	client.BaseURL = srv.URL

	data, status := client.Fetch(context.Background(), "injective")
	if data == nil {
		t.Fatalf("nil data: %s", status)
	}
	if data.ID != "injective-protocol" {
		t.Errorf("ID = %q", data.ID)
	}
}

func TestPriceClientUnknownCoin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"coins":[]}`))
	}))
	defer srv.Close()

	client := NewPriceClient(testClient())
	client.BaseURL = srv.URL

	data, status := client.Fetch(context.Background(), "notacoin")
	if data != nil {
		t.Fatalf("data = %+v, want nil", data)
	}
	if status != "⚠️ Coin not found" {
		t.Errorf("status = %q", status)
	}
}

func TestFearGreedFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"value":"72","value_classification":"Greed","timestamp":"1700000000"}
		]}`))
	}))
	defer srv.Close()

	client := NewFearGreedClient(testClient())
	client.BaseURL = srv.URL

	index, status := client.Fetch(context.Background())
	if index == nil {
		t.Fatalf("nil index: %s", status)
	}
	if index.Value != 72 || index.Classification != "Greed" || index.Timestamp != 1700000000 {
		t.Errorf("unexpected index: %+v", index)
	}
}

func TestFearGreedUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewFearGreedClient(testClient())
	client.BaseURL = srv.URL

	index, status := client.Fetch(context.Background())
	if index != nil {
		t.Fatalf("index = %+v, want nil", index)
	}
	if status != "❌ Index unavailable" {
		t.Errorf("status = %q", status)
	}
}
