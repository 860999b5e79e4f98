// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package middleware

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/tomtom215/basketry/internal/logging"
)

// DefaultSlowRequestThreshold is used when NewPerformanceMonitor gets zero.
const DefaultSlowRequestThreshold = time.Second

// RequestSample is one observed request.
type RequestSample struct {
	Route      string    `json:"route"`
	Method     string    `json:"method"`
	DurationMS int64     `json:"duration_ms"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// EndpointStats contains aggregated statistics for an endpoint
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgDuration  float64 `json:"avg_duration_ms"`
	P50Duration  int64   `json:"p50_duration_ms"`
	P95Duration  int64   `json:"p95_duration_ms"`
	P99Duration  int64   `json:"p99_duration_ms"`
	MaxDuration  int64   `json:"max_duration_ms"`
}

// PerformanceMonitor keeps the most recent request samples in a ring
// buffer and logs requests slower than the threshold. Prometheus keeps the
// long-term series; the monitor answers "what is slow right now".
type PerformanceMonitor struct {
	mu        sync.RWMutex
	samples   []RequestSample
	next      int
	full      bool
	threshold time.Duration
}

// NewPerformanceMonitor creates a monitor holding up to capacity samples.
func NewPerformanceMonitor(capacity int, slowThreshold time.Duration) *PerformanceMonitor {
	if capacity <= 0 {
		capacity = 1000
	}
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}
	return &PerformanceMonitor{
		samples:   make([]RequestSample, capacity),
		threshold: slowThreshold,
	}
}

// Record adds a sample, overwriting the oldest one when full.
func (pm *PerformanceMonitor) Record(s RequestSample) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.samples[pm.next] = s
	pm.next++
	if pm.next == len(pm.samples) {
		pm.next = 0
		pm.full = true
	}
}

// Recent returns up to n samples, oldest first.
func (pm *PerformanceMonitor) Recent(n int) []RequestSample {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	all := pm.ordered()
	if n < len(all) {
		all = all[len(all)-n:]
	}
	return slices.Clone(all)
}

// ordered returns the buffered samples oldest first. mu must be held.
func (pm *PerformanceMonitor) ordered() []RequestSample {
	if !pm.full {
		return pm.samples[:pm.next]
	}
	out := make([]RequestSample, 0, len(pm.samples))
	out = append(out, pm.samples[pm.next:]...)
	return append(out, pm.samples[:pm.next]...)
}

// Stats aggregates the buffered samples per "METHOD route", busiest first.
func (pm *PerformanceMonitor) Stats() []EndpointStats {
	pm.mu.RLock()
	samples := slices.Clone(pm.ordered())
	pm.mu.RUnlock()

	type bucket struct {
		durations []int64
		errors    int64
	}
	byEndpoint := make(map[string]*bucket)
	for _, s := range samples {
		key := s.Method + " " + s.Route
		b := byEndpoint[key]
		if b == nil {
			b = &bucket{}
			byEndpoint[key] = b
		}
		b.durations = append(b.durations, s.DurationMS)
		if s.StatusCode >= http.StatusInternalServerError {
			b.errors++
		}
	}

	stats := make([]EndpointStats, 0, len(byEndpoint))
	for endpoint, b := range byEndpoint {
		slices.Sort(b.durations)
		var sum int64
		for _, d := range b.durations {
			sum += d
		}
		n := len(b.durations)
		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: int64(n),
			ErrorCount:   b.errors,
			AvgDuration:  float64(sum) / float64(n),
			P50Duration:  percentile(b.durations, 0.50),
			P95Duration:  percentile(b.durations, 0.95),
			P99Duration:  percentile(b.durations, 0.99),
			MaxDuration:  b.durations[n-1],
		})
	}

	slices.SortFunc(stats, func(a, b EndpointStats) int {
		if a.RequestCount != b.RequestCount {
			if a.RequestCount > b.RequestCount {
				return -1
			}
			return 1
		}
		if a.Endpoint < b.Endpoint {
			return -1
		}
		if a.Endpoint > b.Endpoint {
			return 1
		}
		return 0
	})
	return stats
}

// Middleware samples every request and warns about slow ones.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		elapsed := time.Since(start)
		route := RoutePattern(r)
		pm.Record(RequestSample{
			Route:      route,
			Method:     r.Method,
			DurationMS: elapsed.Milliseconds(),
			StatusCode: wrapper.statusCode,
			Timestamp:  start,
		})

		if elapsed > pm.threshold {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("route", route).
				Dur("duration", elapsed).
				Dur("threshold", pm.threshold).
				Msg("Slow request detected")
		}
	})
}

// percentile calculates the percentile value from a sorted slice
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}
