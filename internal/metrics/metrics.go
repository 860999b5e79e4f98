// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Mining runs and rule store writes
// - Product name lookups and caches
// - WebSocket connections and event publishing

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Mining Metrics
	MiningRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mining_runs_total",
			Help: "Total number of mining runs by outcome",
		},
		[]string{"outcome"}, // "success", "empty", "failure"
	)

	MiningRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mining_run_duration_seconds",
			Help:    "Duration of complete mining runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 3600},
		},
	)

	MiningStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mining_stage_duration_seconds",
			Help:    "Duration of individual mining pipeline stages in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"stage"}, // "extract", "encode", "itemsets", "rules", "store"
	)

	MiningRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mining_runs_rejected_total",
			Help: "Total number of run requests rejected because a run was in progress",
		},
	)

	MiningInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mining_in_progress",
			Help: "1 while a mining run is active, 0 otherwise",
		},
	)

	MiningLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mining_last_success_timestamp",
			Help: "Unix timestamp of the last successful mining run",
		},
	)

	MiningResultSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mining_last_run_size",
			Help: "Sizes observed by the last mining run",
		},
		[]string{"kind"}, // "transactions", "items", "itemsets", "rules", "edges"
	)

	EdgeUpserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rule_store_upserts_total",
			Help: "Total number of rule store upserts by outcome",
		},
		[]string{"outcome"}, // "inserted", "replaced", "discarded", "failed"
	)

	// Recommendation Metrics
	RecommendationQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_queries_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"kind", "result"}, // kind: "single", "multi"; result: "hit", "empty", "error"
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "names", "recommendations"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of run lifecycle events published",
		},
		[]string{"type", "result"}, // result: "ok", "error"
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// Run outcomes for RecordMiningRun.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeFailure = "failure"
)

// RecordMiningRun records a finished mining run.
func RecordMiningRun(outcome string, duration time.Duration) {
	MiningRunsTotal.WithLabelValues(outcome).Inc()
	MiningRunDuration.Observe(duration.Seconds())
	if outcome == OutcomeSuccess {
		MiningLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordMiningStage records the duration of one pipeline stage.
func RecordMiningStage(stage string, duration time.Duration) {
	MiningStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// SetMiningInProgress flips the in-progress gauge.
func SetMiningInProgress(running bool) {
	if running {
		MiningInProgress.Set(1)
	} else {
		MiningInProgress.Set(0)
	}
}

// RecordEdgeUpsert counts one rule store write by outcome.
func RecordEdgeUpsert(outcome string) {
	EdgeUpserts.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup counts a hit or miss for the named cache.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordEventPublished counts one published event.
func RecordEventPublished(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EventsPublished.WithLabelValues(eventType, result).Inc()
}
