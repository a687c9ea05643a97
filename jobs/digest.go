package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/cryptovibes/cryptovibes/analyzer"
	"github.com/cryptovibes/cryptovibes/archivist"
	"github.com/cryptovibes/cryptovibes/archivist/models"
	"github.com/cryptovibes/cryptovibes/publisher"
	"github.com/cryptovibes/cryptovibes/utils"
	"github.com/getsentry/sentry-go"
)

// TopCoins is the standing top-5 list for the daily digest.
var TopCoins = []string{"BTC", "ETH", "SOL", "ADA", "XRP"}

// SpecialCoin gets its own detailed post after the top-5 summary.
const SpecialCoin = "AVAX"

// coinPause spaces per-coin analysis runs out so the free-tier providers
// are not hit back to back for every coin.
const coinPause = 3 * time.Second

// digestSubreddits returns the subreddit watchlist for one coin.
func digestSubreddits(coin string) []string {
	if strings.EqualFold(coin, SpecialCoin) {
		return []string{"Avax", "Avalanche", "CryptoCurrency", "altcoin"}
	}
	return []string{"CryptoCurrency", "Bitcoin", "ethereum", "solana", "cardano"}
}

// digestConfig is the fixed per-coin analysis config the digest runs with.
func digestConfig(coin string) analyzer.Config {
	return analyzer.Config{
		Query:         coin,
		Days:          7,
		TwitterMethod: analyzer.TwitterNitter,
		Subreddits:    digestSubreddits(coin),
		Limits: analyzer.Limits{
			Twitter:       30,
			Reddit:        60,
			News:          20,
			CryptoPanic:   10,
			CryptoCompare: 15,
			CMC:           10,
		},
		Trending: true,
	}
}

// coinResult is one coin's slice of the digest.
type coinResult struct {
	Coin           string
	Failed         bool
	Grade          Grade
	Dataset        *analyzer.Dataset
	PriceUSD       float64
	PriceChange24h float64
	FearGreed      int
}

type DigestJob struct {
	analyzer   *analyzer.Analyzer     // analysis pipeline shared with the API
	publishers []publisher.Publisher  // outlets that receive the digest posts
	archivist  *archivist.Archivist   // archivist that will save runs to the database (optional)
	logger     *slog.Logger           // special logger for the job
	options    *digestJobOptions      // options for the job
}

func NewDigestJob(
	anl *analyzer.Analyzer,
	publishers []publisher.Publisher,
	arch *archivist.Archivist,
) *DigestJob {
	return &DigestJob{
		analyzer:   anl,
		publishers: publishers,
		archivist:  arch,
		logger:     slog.Default(),
		options:    &digestJobOptions{},
	}
}

// Publish sets the flag that will publish the digest to the outlets.
// Else: will just print the posts to the console (for development).
func (j *DigestJob) Publish() *DigestJob {
	j.options.shouldPublish = true
	return j
}

type digestJobOptions struct {
	shouldPublish bool
}

// Run runs the daily digest: analyze the top-5 coins plus the special coin,
// grade them, publish the posts, archive the runs.
func (j *DigestJob) Run() JobFunc {
	return func() {
		_ = retry.Do(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
			defer cancel()

			tx := sentry.StartTransaction(ctx, "RunDigestJob")
			tx.Op = "job-digest"

			// Sentry performance monitoring
			hub := sentry.GetHubFromContext(ctx)
			if hub == nil {
				hub = sentry.CurrentHub().Clone()
				ctx = sentry.SetHubOnContext(ctx, hub)
			}

			defer func() {
				tx.Finish()
				hub.Flush(2 * time.Second)
			}()

			coins := append(append([]string{}, TopCoins...), SpecialCoin)

			var results []*coinResult
			for i, coin := range coins {
				if i > 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-time.After(coinPause):
					}
				}

				span := sentry.StartSpan(ctx, "AnalyzeCoin", sentry.WithTransactionName("DigestJob.Run"))
				span.SetTag("coin", coin)
				res := j.analyzeCoin(ctx, coin)
				span.Finish()

				results = append(results, res)

				if res.Failed {
					hub.AddBreadcrumb(&sentry.Breadcrumb{
						Category: "analyzer",
						Message:  fmt.Sprintf("No data collected for %s", coin),
						Level:    sentry.LevelWarning,
					}, nil)
					continue
				}
				hub.AddBreadcrumb(&sentry.Breadcrumb{
					Category: "successful",
					Message: fmt.Sprintf("%s graded %s from %d items",
						coin, res.Grade.Letter, len(res.Dataset.Items)),
					Level: sentry.LevelInfo,
				}, nil)
			}

			topPost := formatTopPost(results[:len(TopCoins)])
			detailPost := formatDetailPost(results[len(results)-1])

			if !j.options.shouldPublish {
				fmt.Println(topPost)
				fmt.Println(detailPost)
				return nil
			}

			posts := []string{topPost}
			if detailPost != "" {
				posts = append(posts, detailPost)
			}

			span := sentry.StartSpan(ctx, "Publish", sentry.WithTransactionName("DigestJob.Run"))
			pubID, err := j.publishAll(ctx, posts)
			span.Finish()
			if err != nil {
				e := fmt.Errorf("error publishing digest: %w", err)
				j.logger.Error(e.Error())
				hub.AddBreadcrumb(&sentry.Breadcrumb{
					Category: "publisher",
					Message:  "Error publishing digest",
					Level:    sentry.LevelError,
				}, nil)
				utils.CaptureSentryException("jobDigestPublishError", hub, e)
				return e
			}

			hub.AddBreadcrumb(&sentry.Breadcrumb{
				Category: "successful",
				Message:  "Digest published successfully",
				Level:    sentry.LevelInfo,
			}, nil)

			if j.archivist != nil {
				span = sentry.StartSpan(ctx, "Runs.Create", sentry.WithTransactionName("DigestJob.Run"))
				err = j.archiveRuns(ctx, results, pubID)
				span.Finish()
				if err != nil {
					e := fmt.Errorf("error archiving runs: %w", err)
					j.logger.Error(e.Error())
					utils.CaptureSentryException("jobDigestArchiveError", hub, e)
					// Archive failure does not unpublish anything; no retry.
					return nil
				}
			}

			return nil
		},
			retry.Attempts(5),
			retry.Delay(10*time.Minute),
		)
	}
}

// analyzeCoin runs the full pipeline for one coin. Failures degrade into a
// Failed result so one dead coin never aborts the digest.
func (j *DigestJob) analyzeCoin(ctx context.Context, coin string) *coinResult {
	results := j.analyzer.FetchAll(ctx, digestConfig(coin))

	dataset, err := analyzer.Aggregate(results)
	if err != nil {
		j.logger.Warn("no data collected", "coin", coin, "error", err)
		return &coinResult{Coin: coin, Failed: true}
	}

	res := &coinResult{
		Coin:    coin,
		Grade:   GradeFor(dataset.MeanScore),
		Dataset: dataset,
	}
	if results.Price != nil {
		res.PriceUSD = results.Price.PriceUSD
		res.PriceChange24h = results.Price.PriceChange24hPc
	}
	if results.FearGreed != nil {
		res.FearGreed = results.FearGreed.Value
	}

	return res
}

// publishAll delivers the posts to every outlet and returns the first
// publication id for the archive.
func (j *DigestJob) publishAll(ctx context.Context, posts []string) (string, error) {
	var firstID string
	for _, pub := range j.publishers {
		for _, post := range posts {
			id, err := pub.Publish(ctx, post)
			if err != nil {
				return "", err
			}
			if firstID == "" {
				firstID = id
			}
		}
	}
	return firstID, nil
}

func (j *DigestJob) archiveRuns(ctx context.Context, results []*coinResult, pubID string) error {
	now := time.Now().UTC()

	var runs []*models.Run
	for _, res := range results {
		if res.Failed {
			continue
		}

		stats, err := json.Marshal(res.Dataset.SourceStats)
		if err != nil {
			return err
		}

		runs = append(runs, &models.Run{
			Token:            strings.ToLower(res.Coin),
			MeanScore:        res.Dataset.MeanScore,
			ItemCount:        len(res.Dataset.Items),
			PositiveCount:    res.Dataset.LabelCounts["positive"],
			NegativeCount:    res.Dataset.LabelCounts["negative"],
			NeutralCount:     res.Dataset.LabelCounts["neutral"],
			SourceStats:      stats,
			PriceUSD:         res.PriceUSD,
			PriceChange24hPc: res.PriceChange24h,
			FearGreedValue:   res.FearGreed,
			Grade:            res.Grade.Letter,
			PublicationID:    pubID,
			PostedAt:         now,
		})
	}

	if len(runs) == 0 {
		return nil
	}

	return j.archivist.Entities.Runs.Create(ctx, runs)
}
