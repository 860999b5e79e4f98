// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package catalog

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/cache"
	"github.com/tomtom215/basketry/internal/database"
	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/metrics"
)

// NotFoundName is returned for products without a display name.
const NotFoundName = database.NotFoundName

// breakerName labels the circuit breaker in metrics and logs.
const breakerName = "product-names"

// NameSource looks up a single product display name.
// database.OrderRepository implements it.
type NameSource interface {
	ProductName(ctx context.Context, id basket.ItemID) (name string, found bool, err error)
}

// Resolver turns product ids into display names for the rule store.
//
// Lookups go through an LRU so a product is queried once per run no matter
// how many edges mention it, and through a circuit breaker so a failing
// shop database degrades every name to NotFoundName instead of stalling the
// run on timeouts. Resolve never fails.
type Resolver struct {
	src   NameSource
	cb    *gobreaker.CircuitBreaker[lookupResult]
	names *cache.LRU[basket.ItemID, string]
}

type lookupResult struct {
	name  string
	found bool
}

// NewResolver creates a resolver over src caching up to cacheSize names.
//
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 30 second timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewResolver(src NameSource, cacheSize int) *Resolver {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[lookupResult](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit for product name lookups")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Resolver{
		src:   src,
		cb:    cb,
		names: cache.NewLRU[basket.ItemID, string](cacheSize, 0),
	}
}

// Resolve returns the display name of id, or NotFoundName when the product
// does not exist, the lookup fails or the breaker is open. Failed lookups
// are not cached so a later run can retry them.
func (r *Resolver) Resolve(ctx context.Context, id basket.ItemID) string {
	if name, ok := r.names.Get(id); ok {
		metrics.RecordCacheLookup("names", true)
		return name
	}
	metrics.RecordCacheLookup("names", false)

	res, err := r.cb.Execute(func() (lookupResult, error) {
		name, found, err := r.src.ProductName(ctx, id)
		return lookupResult{name: name, found: found}, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
			logging.Ctx(ctx).Warn().Err(err).Int64("product_id", int64(id)).
				Msg("Product name lookup failed")
		}
		return NotFoundName
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()

	name := res.name
	if !res.found || name == "" {
		name = NotFoundName
	}
	r.names.Set(id, name)
	metrics.CacheSize.WithLabelValues("names").Set(float64(r.names.Len()))
	return name
}

// Reset forgets every cached name. Called at the start of each mining run
// so renamed products are picked up.
func (r *Resolver) Reset() {
	r.names.Purge()
	metrics.CacheSize.WithLabelValues("names").Set(0)
}

// State returns the circuit breaker state as "closed", "half-open" or "open".
func (r *Resolver) State() string {
	return stateToString(r.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
