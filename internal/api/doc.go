// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package api provides the HTTP API for Basketry.

Endpoints:

  - POST|GET /api/association: start a mining run (202, or 409 while one is active)
  - GET /api/status: mining state, last message, last error, last run summary
  - GET /api/recommendations?items=1,2&k=6: products bought with a basket
  - GET /api/products/{id}/associations?limit=N: stored associations of one product
  - GET /api/health: database, source, breaker and websocket state
  - GET /api/performance: recent per-route latency
  - GET /api/ws: websocket stream of run lifecycle events
  - GET /metrics: Prometheus exposition
  - GET /swagger/*: Swagger UI

Every JSON response uses the models.APIResponse envelope. Errors carry a
stable code: VALIDATION_ERROR, MINING_IN_PROGRESS, QUERY_ERROR,
RATE_LIMIT_EXCEEDED, NOT_FOUND, METHOD_NOT_ALLOWED or INTERNAL_ERROR.

Middleware order is request ID, real IP, panic recovery and CORS for every
route, then per-IP rate limiting, Prometheus metrics and the latency monitor
for the API group. The trigger has a second, tighter limiter. There is no
authentication.

Usage:

	handler := api.NewHandler(api.HandlerDeps{
	    Mining:      coordinator,
	    Recommender: recommendations,
	    DB:          db,
	    Catalog:     resolver,
	    Hub:         hub,
	    Upgrader:    websocket.NewUpgrader(cfg.Security.CORSOrigins),
	})
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security))
	srv := &http.Server{Handler: api.NewRouter(handler, mw).SetupChi()}
*/
package api
