package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cryptovibes/cryptovibes/analyzer"
	"github.com/cryptovibes/cryptovibes/sources"
)

// apiServer exposes the analysis pipeline to the dashboard. Rendering lives
// in the dashboard; this surface only returns data.
type apiServer struct {
	analyzer *analyzer.Analyzer
	logger   *slog.Logger
}

func (s *apiServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/analyze/csv", s.handleAnalyzeCSV)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

// analyzeRequest is the dashboard's run configuration.
type analyzeRequest struct {
	Query         string   `json:"query"`
	Days          int      `json:"days"`
	TwitterMethod string   `json:"twitter_method"`
	Subreddits    []string `json:"subreddits"`
	Trending      bool     `json:"trending"`
	Limits        struct {
		Twitter       int `json:"twitter"`
		Reddit        int `json:"reddit"`
		News          int `json:"news"`
		CryptoPanic   int `json:"cryptopanic"`
		CryptoCompare int `json:"cryptocompare"`
		CMC           int `json:"cmc"`
	} `json:"limits"`
	Keys struct {
		RapidAPI    string `json:"rapidapi"`
		NewsAPI     string `json:"newsapi"`
		CryptoPanic string `json:"cryptopanic"`
	} `json:"keys"`
}

func (r *analyzeRequest) toConfig() analyzer.Config {
	days := r.Days
	if days == 0 {
		days = 7
	}
	return analyzer.Config{
		Query:         r.Query,
		Days:          days,
		TwitterMethod: analyzer.TwitterMethod(r.TwitterMethod),
		Subreddits:    r.Subreddits,
		Trending:      r.Trending,
		Limits: analyzer.Limits{
			Twitter:       r.Limits.Twitter,
			Reddit:        r.Limits.Reddit,
			News:          r.Limits.News,
			CryptoPanic:   r.Limits.CryptoPanic,
			CryptoCompare: r.Limits.CryptoCompare,
			CMC:           r.Limits.CMC,
		},
		Keys: analyzer.Keys{
			RapidAPI:    r.Keys.RapidAPI,
			NewsAPI:     r.Keys.NewsAPI,
			CryptoPanic: r.Keys.CryptoPanic,
		},
	}
}

// sourceStatus is the per-source outcome row shown in the dashboard sidebar.
type sourceStatus struct {
	Status string        `json:"status"`
	State  sources.State `json:"state"`
}

type analyzeResponse struct {
	Dataset         *analyzer.Dataset               `json:"dataset,omitempty"`
	Error           string                          `json:"error,omitempty"`
	Statuses        map[sources.Source]sourceStatus `json:"statuses"`
	Price           *sources.CoinData               `json:"price,omitempty"`
	PriceStatus     string                          `json:"price_status"`
	FearGreed       *sources.Index                  `json:"fear_greed,omitempty"`
	FearGreedStatus string                          `json:"fear_greed_status"`
}

func (s *apiServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	results := s.analyzer.FetchAll(r.Context(), req.toConfig())

	resp := analyzeResponse{
		Statuses:        make(map[sources.Source]sourceStatus, len(results.Sentiment)),
		Price:           results.Price,
		PriceStatus:     results.PriceStatus,
		FearGreed:       results.FearGreed,
		FearGreedStatus: results.FearGreedStatus,
	}
	for src, res := range results.Sentiment {
		resp.Statuses[src] = sourceStatus{Status: res.Status, State: res.State}
	}

	dataset, err := analyzer.Aggregate(results)
	switch {
	case errors.Is(err, analyzer.ErrNoSentimentData):
		// Still a valid response: the dashboard shows the per-source
		// statuses so the user can see what went wrong.
		resp.Error = analyzer.ErrNoSentimentData.Error()
	case err != nil:
		s.logger.Error("aggregation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	default:
		resp.Dataset = dataset
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("response encoding failed", "error", err)
	}
}

func (s *apiServer) handleAnalyzeCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	results := s.analyzer.FetchAll(r.Context(), defaultCSVConfig(query))

	dataset, err := analyzer.Aggregate(results)
	if err != nil {
		if errors.Is(err, analyzer.ErrNoSentimentData) {
			http.Error(w, "no sentiment data", http.StatusNotFound)
			return
		}
		s.logger.Error("aggregation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sentiment_`+query+`.csv"`)
	if err := dataset.WriteCSV(w); err != nil {
		s.logger.Error("csv export failed", "error", err)
	}
}

func (s *apiServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// defaultCSVConfig mirrors the dashboard's default sliders for the plain
// CSV download link, which carries no body.
func defaultCSVConfig(query string) analyzer.Config {
	return analyzer.Config{
		Query:         query,
		Days:          7,
		TwitterMethod: analyzer.TwitterNitter,
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
