// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package recommend answers "customers who bought X also bought Y" queries
// from the stores written by the mining pipeline.
//
// Single-product queries read the pairwise rule store and carry product
// names. Multi-product queries match rules whose antecedent is exactly the
// requested set; a consequent reached through several rules keeps its
// highest confidence. Results are ordered by confidence descending, then
// product id ascending, and are cached until the next completed run calls
// Invalidate.
//
//	svc := recommend.NewService(recommend.Config{DefaultK: 6, MaxK: 100}, store, db)
//	recs, err := svc.Recommend(ctx, []basket.ItemID{1, 2}, 0)
package recommend
