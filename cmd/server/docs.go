// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package main provides the Basketry HTTP server
//
// @title Basketry API
// @version 1.0
// @description Association rule mining over shop order history and "customers also bought" recommendations
// @description
// @description ## Mining
// @description
// @description A run rebuilds the rule store from the full order history. Only one run is active at a time;
// @description triggering a second run while one is active returns 409 and nothing is queued.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address. The mining trigger has its own,
// @description stricter limit. `/api/health` is never rate limited.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-18T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/basketry/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8085
// @BasePath /api
// @schemes http https
//
// @tag.name Core
// @tag.description Health checks and request latency statistics
//
// @tag.name Mining
// @tag.description Association run trigger and status
//
// @tag.name Recommendations
// @tag.description Product recommendations and per-product association listings
//
// @tag.name Realtime
// @tag.description WebSocket notifications for mining run events
package main
