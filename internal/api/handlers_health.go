// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/basketry/internal/models"
	"github.com/tomtom215/basketry/internal/websocket"
)

// healthPingTimeout bounds the database ping of a health check.
const healthPingTimeout = 2 * time.Second

// Health handles health check requests
//
// @Summary Get service health
// @Description Reports database connectivity, whether a remote shop database is attached, the mining state, the product-name circuit breaker state and connected websocket clients. Always 200; Status is "degraded" when the database does not answer.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := models.HealthStatus{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		health.DatabaseConnected = h.db.Ping(ctx) == nil
		cancel()
		health.SourceAttached = h.db.SourceAttached()
	}
	if !health.DatabaseConnected {
		health.Status = "degraded"
	}
	if h.mining != nil {
		health.MiningRunning = h.mining.Snapshot().Running
	}
	if h.catalog != nil {
		health.CatalogBreaker = h.catalog.State()
	}
	if h.hub != nil {
		health.WebSocketClients = h.hub.GetClientCount()
	}

	respondSuccess(w, r, http.StatusOK, health)
}

// Performance returns per-endpoint latency over the recent request window.
//
// @Summary Get recent API latency
// @Description Aggregates the most recent requests per route: count, errors, average, p50, p95, p99 and max duration in milliseconds.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]middleware.EndpointStats} "Endpoint statistics"
// @Router /performance [get]
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.perf.Stats())
}

// WebSocket upgrades the connection and streams run lifecycle events.
//
// @Summary Subscribe to run events
// @Description Upgrades to a websocket. The server pushes run_started, run_completed, run_empty and run_failed messages; clients may send {"type":"ping"} and receive a pong.
// @Tags Realtime
// @Success 101 "Switching protocols"
// @Failure 400 "Not a websocket request"
// @Failure 503 {object} models.APIResponse "Realtime updates disabled"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeInternal, "Realtime updates are disabled", nil)
		return
	}
	websocket.ServeWS(h.hub, h.upgrader, w, r)
}
