// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package database is the DuckDB data layer for Basketry.
//
// # Overview
//
// One DuckDB file holds everything the service owns:
//
//   - association_edges: the pairwise rule store. One row per
//     (product_id_in, product_id_out) with the product display names and the
//     confidence on a 0-100 scale. Rebuilt from empty by every mining run.
//   - association_rules: multi-item rules kept intact so an antecedent set
//     can be matched exactly.
//   - order_items, products: local order history, used when no shop
//     database is attached. Seeded with ImportCSV.
//
// # Order Sources
//
// OrderRepository implements basket.PairSource. NewLocalOrderRepository reads
// the local tables; NewWooCommerceOrderRepository reads a WooCommerce MySQL
// database attached read-only through the DuckDB mysql extension:
//
//	db, err := database.New(&cfg.Database)
//	if err := db.AttachMySQL(ctx, cfg.Source.MySQLDSN); err != nil { ... }
//	repo := database.NewWooCommerceOrderRepository(db, cfg.Source.TablePrefix)
//
// # Rule Store
//
// AssociationStore.Upsert applies the max-confidence conflict rule from
// basket.KeepIncumbent. Every call is its own transaction, so an edge is
// durable before the next one is written and a failed edge never rolls back
// earlier ones. Failures come back as *basket.PersistenceError.
//
// # Thread Safety
//
// DB is safe for concurrent use. DuckDB serialises writers internally;
// readers run concurrently with the single mining writer.
package database
