// Package metrics exposes the service's Prometheus collectors and the
// /metrics + /health HTTP surface.
package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	MarketsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crosslink_markets_fetched_total",
		Help: "Markets fetched into matching runs, by venue and topic.",
	}, []string{"venue", "topic"})

	PairsGated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crosslink_pairs_gated_total",
		Help: "Candidate pairs that hit hard gates, by topic and outcome.",
	}, []string{"topic", "outcome"})

	GateFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crosslink_gate_failures_total",
		Help: "Hard-gate failures by topic and reason.",
	}, []string{"topic", "reason"})

	AutoRules = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crosslink_auto_rules_total",
		Help: "Auto-confirm/auto-reject rules fired, by topic and rule.",
	}, []string{"topic", "rule"})

	LinksUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crosslink_links_upserted_total",
		Help: "Link rows written, by topic and status.",
	}, []string{"topic", "status"})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crosslink_fetch_errors_total",
		Help: "Venue fetch failures by venue and taxonomy kind.",
	}, []string{"venue", "kind"})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crosslink_engine_run_seconds",
		Help:    "Engine run duration by topic.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"topic"})

	WatchlistSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "crosslink_watchlist_size",
		Help: "Watchlist entries after the latest sync, by venue and priority.",
	}, []string{"venue", "priority"})
)

// Server serves /metrics and /health.
type Server struct {
	srv *http.Server
}

// NewServer builds the metrics HTTP server on the given address.
func NewServer(addr string) *Server {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)

	return &Server{srv: &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}}
}

// Start serves until Close. Errors other than a clean shutdown are logged,
// not fatal: a broken metrics port must not take the matcher down.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Str("addr", s.srv.Addr).Msg("metrics server stopped")
		}
	}()
	log.Info().Str("addr", s.srv.Addr).Msg("metrics server listening")
}

// Close shuts the server down.
func (s *Server) Close() error {
	return s.srv.Close()
}
