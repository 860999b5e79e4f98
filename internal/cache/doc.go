// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package cache provides a generic, thread-safe LRU cache with optional TTL.

# Use Cases

  - Product display names during a mining run (catalog.Resolver). No TTL:
    names are looked up once per product instead of once per edge.
  - Recommendation responses (recommend.Service). TTL from
    recommend.cache_ttl; purged whenever a mining run completes.

# Usage

	names := cache.NewLRU[basket.ItemID, string](10000, 0)
	names.Set(42, "Espresso Beans")
	if name, ok := names.Get(42); ok {
	    // use name
	}

# Expiration

Expiry is lazy: an expired entry is dropped when it is next read, or by
CleanupExpired. Stats reports hits, misses and evictions for the
Prometheus cache collectors.
*/
package cache
