// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
database_schema.go - Database Schema Management

Tables:
  - association_edges: pairwise rule store, one row per (product_id_in,
    product_id_out), confidence on the 0-100 scale. Dropped and recreated by
    every mining run.
  - association_rules: multi-item rules kept intact for exact antecedent
    lookups. Replaced by every mining run.
  - order_items, products: local order history used when no shop database
    is attached. Seeded from CSV or written by other tooling.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

const createEdgesTable = `CREATE TABLE IF NOT EXISTS association_edges (
	product_id_in BIGINT NOT NULL,
	post_title_in TEXT NOT NULL,
	product_id_out BIGINT NOT NULL,
	post_title_out TEXT NOT NULL,
	confidence DOUBLE NOT NULL,
	PRIMARY KEY (product_id_in, product_id_out)
)`

const createRulesTable = `CREATE TABLE IF NOT EXISTS association_rules (
	antecedent_key TEXT NOT NULL,
	consequent_key TEXT NOT NULL,
	antecedent_size INTEGER NOT NULL,
	consequent_size INTEGER NOT NULL,
	support DOUBLE NOT NULL,
	antecedent_support DOUBLE NOT NULL,
	consequent_support DOUBLE NOT NULL,
	confidence DOUBLE NOT NULL,
	lift DOUBLE NOT NULL,
	leverage DOUBLE NOT NULL,
	PRIMARY KEY (antecedent_key, consequent_key)
)`

// createTables creates every table the service owns.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		createEdgesTable,
		createRulesTable,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id BIGINT PRIMARY KEY,
			post_title TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}
