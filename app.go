package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cryptovibes/cryptovibes/analyzer"
	"github.com/cryptovibes/cryptovibes/archivist"
	"github.com/cryptovibes/cryptovibes/fetcher"
	"github.com/cryptovibes/cryptovibes/jobs"
	"github.com/cryptovibes/cryptovibes/publisher"
	"github.com/cryptovibes/cryptovibes/scout"
	"github.com/cryptovibes/cryptovibes/sentiment"
	"github.com/getsentry/sentry-go"
	"github.com/go-co-op/gocron/v2"
)

// fetchTimeout is the per-attempt transport timeout shared by all adapters.
const fetchTimeout = 10 * time.Second

type App struct {
	config *Config
	logger *slog.Logger
}

func (a *App) start() {
	env := a.config.env

	// Sentry hub for fatal errors
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelFatal)
	})
	defer hub.Flush(2 * time.Second)

	client := fetcher.New(fetchTimeout)
	if env.UseProxies {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		pool := fetcher.FetchProxyPool(ctx)
		cancel()
		client.WithProxies(pool)
		a.logger.Info("proxy pool loaded", "size", len(pool))
	}

	scorer := a.buildScorer(env)
	creds := scout.NewResolver(env.SecretsFile)
	anl := analyzer.New(client, scorer, creds, a.logger)

	var arch *archivist.Archivist
	if env.PostgresDSN != "" {
		var err error
		arch, err = archivist.NewArchivist(env.PostgresDSN)
		if err != nil {
			a.logger.Error("archivist unavailable", "error", err)
			hub.CaptureException(err)
			return
		}
	}

	digest := jobs.NewDigestJob(anl, a.buildPublishers(env, hub), arch)
	if env.PublishDigest {
		digest = digest.Publish()
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		a.logger.Error("scheduler init failed", "error", err)
		hub.CaptureException(err)
		return
	}

	hour, minute := parseDigestAt(env.DigestAt)
	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(digest.Run()),
	)
	if err != nil {
		a.logger.Error("digest job scheduling failed", "error", err)
		hub.CaptureException(err)
		return
	}

	s.Start()
	defer func() {
		_ = s.Shutdown()
	}()

	a.logger.Info("started",
		"addr", env.ServerAddr,
		"scorer", env.ScorerProvider,
		"digest_at", env.DigestAt,
	)

	api := &apiServer{analyzer: anl, logger: a.logger}
	if err := http.ListenAndServe(env.ServerAddr, api.routes()); err != nil {
		a.logger.Error("http server stopped", "error", err)
		hub.CaptureException(err)
	}
}

// buildScorer picks the scoring backend. The lexicon needs no credentials
// and is the fallback whenever the configured provider cannot start.
func (a *App) buildScorer(env *Env) sentiment.Scorer {
	switch env.ScorerProvider {
	case "openai":
		if env.OpenAiToken != "" {
			return sentiment.NewOpenAIScorer(env.OpenAiToken)
		}
		a.logger.Warn("openai scorer selected but no token, using lexicon")
	case "gemini":
		scorer, err := sentiment.NewGeminiScorer(context.Background(), env.GoogleGeminiToken)
		if err == nil {
			return scorer
		}
		a.logger.Warn("gemini scorer unavailable, using lexicon", "error", err)
	}
	return sentiment.NewLexiconScorer()
}

func (a *App) buildPublishers(env *Env, hub *sentry.Hub) []publisher.Publisher {
	var pubs []publisher.Publisher

	if env.TypefullyAPIKey != "" {
		pubs = append(pubs, publisher.NewTypefullyPublisher(env.TypefullyAPIKey))
	}

	if env.TelegramBotToken != "" && env.TelegramChannelID != "" {
		tg, err := publisher.NewTelegramPublisher(env.TelegramChannelID, env.TelegramBotToken)
		if err != nil {
			a.logger.Error("telegram publisher unavailable", "error", err)
			hub.CaptureException(err)
		} else {
			pubs = append(pubs, tg)
		}
	}

	return pubs
}

// parseDigestAt splits "HH:MM"; the value was already validated on load.
func parseDigestAt(at string) (uint, uint) {
	parts := strings.SplitN(at, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	return uint(hour), uint(minute)
}
