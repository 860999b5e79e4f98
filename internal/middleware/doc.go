// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package middleware provides HTTP middleware shared by the API routes.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request counters, latency histogram, in-flight gauge
  - PerformanceMonitor: ring buffer of recent requests with slow-request warnings

All middleware use the func(http.Handler) http.Handler shape so they plug
into chi directly:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Group(func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(perf.Middleware)
	    r.Get("/api/status", h.Status)
	})

Metrics and performance samples are labelled by chi route pattern rather
than raw path, so product IDs in the URL do not create new series.
*/
package middleware
