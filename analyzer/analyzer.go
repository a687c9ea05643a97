// Package analyzer orchestrates one analysis run: it fans the enabled source
// adapters out over a bounded worker pool, collects their results into a
// typed set, and aggregates the surviving items into a dataset.
package analyzer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cryptovibes/cryptovibes/fetcher"
	"github.com/cryptovibes/cryptovibes/scout"
	"github.com/cryptovibes/cryptovibes/sentiment"
	"github.com/cryptovibes/cryptovibes/sources"
	"golang.org/x/sync/errgroup"
)

const (
	// maxPoolSize bounds concurrent adapter tasks per run.
	maxPoolSize = 10
	// taskTimeout is the per-task deadline. A source that cannot answer in
	// 30s is not worth blocking the whole run for.
	taskTimeout = 30 * time.Second
)

// TwitterMethod selects which twitter adapters participate in a run.
type TwitterMethod string

const (
	TwitterNitter TwitterMethod = "nitter"
	TwitterAPI    TwitterMethod = "api"
	TwitterAll    TwitterMethod = "all"
)

// Limits holds the per-source item budgets. Zero disables a source.
type Limits struct {
	Twitter       int
	Reddit        int
	News          int
	CryptoPanic   int
	CryptoCompare int
	CMC           int
}

// Keys carries explicit per-run credentials supplied by the caller; empty
// fields fall through to the shared resolver chain.
type Keys struct {
	RapidAPI    string
	NewsAPI     string
	CryptoPanic string
}

// Config describes one analysis run. Treated as immutable once submitted.
type Config struct {
	Query         string
	Days          int
	TwitterMethod TwitterMethod
	Subreddits    []string
	Limits        Limits
	Keys          Keys
	Trending      bool
}

// DefaultSubreddits is the standing watchlist for the Reddit adapter.
var DefaultSubreddits = []string{"CryptoCurrency", "CryptoMarkets", "Bitcoin"}

// Results is the typed outcome of one FetchAll call. Sentiment holds exactly
// one entry per sentiment source; price and fear/greed are separate because
// their payloads are structured records, not scored items.
type Results struct {
	Sentiment       map[sources.Source]*sources.FetchResult
	Price           *sources.CoinData
	PriceStatus     string
	FearGreed       *sources.Index
	FearGreedStatus string
}

// Analyzer wires the adapters together. Build one with New and reuse it
// across runs; all fields are safe for concurrent use.
type Analyzer struct {
	nitter        *sources.NitterAdapter
	twitter       *sources.TwitterAPIAdapter
	reddit        *sources.RedditAdapter
	news          *sources.NewsAPIAdapter
	cryptoPanic   *sources.CryptoPanicAdapter
	cryptoCompare *sources.CryptoCompareAdapter
	cmc           *sources.CMCAdapter
	trending      *sources.TrendingAdapter
	price         *sources.PriceClient
	fearGreed     *sources.FearGreedClient

	logger *slog.Logger

	// TaskTimeout overrides the per-task deadline; tests shrink it.
	TaskTimeout time.Duration
}

// New builds an Analyzer with all adapters sharing one transport client,
// scorer and credential resolver.
func New(client *fetcher.Client, scorer sentiment.Scorer, creds *scout.Resolver, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		nitter:        sources.NewNitterAdapter(client, scorer),
		twitter:       sources.NewTwitterAPIAdapter(client, scorer, creds),
		reddit:        sources.NewRedditAdapter(client, scorer),
		news:          sources.NewNewsAPIAdapter(client, scorer, creds),
		cryptoPanic:   sources.NewCryptoPanicAdapter(client, scorer, creds),
		cryptoCompare: sources.NewCryptoCompareAdapter(client, scorer),
		cmc:           sources.NewCMCAdapter(client, scorer),
		trending:      sources.NewTrendingAdapter(client),
		price:         sources.NewPriceClient(client),
		fearGreed:     sources.NewFearGreedClient(client),
		logger:        logger,
		TaskTimeout:   taskTimeout,
	}
}

// FetchAll runs every adapter for the config over a bounded pool and returns
// one result per source. It never returns an error: every failure mode is
// already encoded in the per-source results.
func (a *Analyzer) FetchAll(ctx context.Context, cfg Config) *Results {
	started := time.Now()

	results := &Results{
		Sentiment: make(map[sources.Source]*sources.FetchResult, len(sources.SentimentSources)),
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(maxPoolSize)

	submit := func(src sources.Source, fn func(context.Context) *sources.FetchResult) {
		g.Go(func() error {
			res := a.await(ctx, fn)
			mu.Lock()
			results.Sentiment[src] = res
			mu.Unlock()
			return nil
		})
	}

	// Unknown selector values degrade to the free default.
	method := cfg.TwitterMethod
	if method != TwitterAPI && method != TwitterAll {
		method = TwitterNitter
	}

	// Skipped twitter variants are recorded before any worker starts so the
	// map writes below need no lock.
	if method == TwitterAPI {
		results.Sentiment[sources.SourceNitter] = sources.Disabled()
	}
	if method == TwitterNitter {
		results.Sentiment[sources.SourceTwitterAPI] = sources.Disabled()
	}

	if method == TwitterNitter || method == TwitterAll {
		submit(sources.SourceNitter, func(ctx context.Context) *sources.FetchResult {
			return a.nitter.Fetch(ctx, cfg.Query, cfg.Limits.Twitter)
		})
	}

	if method == TwitterAPI || method == TwitterAll {
		submit(sources.SourceTwitterAPI, func(ctx context.Context) *sources.FetchResult {
			return a.twitter.Fetch(ctx, cfg.Query, cfg.Limits.Twitter, cfg.Keys.RapidAPI)
		})
	}

	subs := cfg.Subreddits
	if len(subs) == 0 {
		subs = DefaultSubreddits
	}
	submit(sources.SourceReddit, func(ctx context.Context) *sources.FetchResult {
		return a.reddit.Fetch(ctx, cfg.Query, subs, cfg.Limits.Reddit)
	})

	submit(sources.SourceNews, func(ctx context.Context) *sources.FetchResult {
		return a.news.Fetch(ctx, cfg.Query, cfg.Days, cfg.Limits.News, cfg.Keys.NewsAPI)
	})

	submit(sources.SourceCryptoPanic, func(ctx context.Context) *sources.FetchResult {
		return a.cryptoPanic.Fetch(ctx, cfg.Query, cfg.Limits.CryptoPanic, cfg.Keys.CryptoPanic)
	})

	submit(sources.SourceCryptoCompare, func(ctx context.Context) *sources.FetchResult {
		return a.cryptoCompare.Fetch(ctx, cfg.Query, cfg.Limits.CryptoCompare)
	})

	submit(sources.SourceCMC, func(ctx context.Context) *sources.FetchResult {
		return a.cmc.Fetch(ctx, cfg.Query, cfg.Limits.CMC)
	})

	submit(sources.SourceTrending, func(ctx context.Context) *sources.FetchResult {
		return a.trending.Fetch(ctx, cfg.Trending)
	})

	// Price and fear/greed always run: the dashboard shows them regardless
	// of which sentiment sources are enabled.
	g.Go(func() error {
		data, status := awaitPair(ctx, a.TaskTimeout, func(ctx context.Context) (*sources.CoinData, string) {
			return a.price.Fetch(ctx, cfg.Query)
		})
		mu.Lock()
		results.Price, results.PriceStatus = data, status
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		index, status := awaitPair(ctx, a.TaskTimeout, func(ctx context.Context) (*sources.Index, string) {
			return a.fearGreed.Fetch(ctx)
		})
		mu.Lock()
		results.FearGreed, results.FearGreedStatus = index, status
		mu.Unlock()
		return nil
	})

	_ = g.Wait()

	a.logger.Info("analysis run finished",
		"query", cfg.Query,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)

	return results
}

// await runs one adapter task under the per-task deadline, converting a
// panic or a blown deadline into a timeout result. A result arriving after
// the deadline is discarded.
func (a *Analyzer) await(ctx context.Context, fn func(context.Context) *sources.FetchResult) *sources.FetchResult {
	ctx, cancel := context.WithTimeout(ctx, a.TaskTimeout)
	defer cancel()

	ch := make(chan *sources.FetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("adapter panicked", "panic", r)
				ch <- sources.Timeout()
			}
		}()
		ch <- fn(ctx)
	}()

	select {
	case res := <-ch:
		return res
	case <-ctx.Done():
		return sources.Timeout()
	}
}

// awaitPair is await for the two-value clients (price, fear/greed).
func awaitPair[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (*T, string)) (*T, string) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type pair struct {
		data   *T
		status string
	}

	ch := make(chan pair, 1)
	go func() {
		defer func() {
			if recover() != nil {
				ch <- pair{nil, "❌ Timeout/Error"}
			}
		}()
		data, status := fn(ctx)
		ch <- pair{data, status}
	}()

	select {
	case p := <-ch:
		return p.data, p.status
	case <-ctx.Done():
		return nil, "❌ Timeout/Error"
	}
}
