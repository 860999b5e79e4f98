// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

import (
	"context"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/basketry/internal/audit"
	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/middleware"
	"github.com/tomtom215/basketry/internal/mining"
	"github.com/tomtom215/basketry/internal/recommend"
	"github.com/tomtom215/basketry/internal/websocket"
)

// MiningController starts runs and reports their status.
// *mining.Coordinator implements it.
type MiningController interface {
	TryStart(ctx context.Context, trigger string) (string, error)
	Snapshot() mining.Status
}

// Recommender answers recommendation queries. *recommend.Service implements it.
type Recommender interface {
	Recommend(ctx context.Context, items []basket.ItemID, k int) ([]recommend.Recommendation, error)
	Associations(ctx context.Context, productID basket.ItemID, limit int) ([]recommend.ProductAssociation, error)
	Limits() (defaultK, maxK int)
}

// DatabaseHealth is the subset of *database.DB the health check needs.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	SourceAttached() bool
}

// RunHistory lists finished mining runs. *audit.Logger implements it.
type RunHistory interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Entry, error)
	Count(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

// BreakerState reports a circuit breaker state. *catalog.Resolver implements it.
type BreakerState interface {
	State() string
}

// HandlerDeps groups the collaborators of Handler. Runs, Catalog, Hub and
// Performance are optional.
type HandlerDeps struct {
	Mining      MiningController
	Recommender Recommender
	DB          DatabaseHealth
	Runs        RunHistory
	Catalog     BreakerState
	Hub         *websocket.Hub
	Upgrader    gorillaws.Upgrader
	Performance *middleware.PerformanceMonitor
	Version     string
}

// Handler serves the HTTP API.
type Handler struct {
	mining    MiningController
	recs      Recommender
	db        DatabaseHealth
	runs      RunHistory
	catalog   BreakerState
	hub       *websocket.Hub
	upgrader  gorillaws.Upgrader
	perf      *middleware.PerformanceMonitor
	version   string
	startTime time.Time
}

// NewHandler creates a handler.
func NewHandler(deps HandlerDeps) *Handler {
	if deps.Performance == nil {
		deps.Performance = middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowRequestThreshold)
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	return &Handler{
		mining:    deps.Mining,
		recs:      deps.Recommender,
		db:        deps.DB,
		runs:      deps.Runs,
		catalog:   deps.Catalog,
		hub:       deps.Hub,
		upgrader:  deps.Upgrader,
		perf:      deps.Performance,
		version:   deps.Version,
		startTime: time.Now(),
	}
}
