// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/basketry/internal/basket"
)

// OrderRepository is the read-only order history the pipeline mines.
// It streams every (order, product) pair in a single query, ordered by
// order id, and resolves product display names one at a time.
type OrderRepository struct {
	db         *DB
	pairsQuery string
	nameQuery  string
	source     string
}

// NewLocalOrderRepository reads from the local order_items and products tables.
func NewLocalOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{
		db:         db,
		source:     "local",
		pairsQuery: `SELECT order_id, product_id FROM order_items ORDER BY order_id, product_id`,
		nameQuery:  `SELECT post_title FROM products WHERE product_id = ?`,
	}
}

// NewWooCommerceOrderRepository reads from an attached WooCommerce database.
// Orders come from <prefix>wc_order_stats joined with
// <prefix>wc_order_product_lookup; names from <prefix>posts.post_title.
// prefix must already be validated as an identifier.
func NewWooCommerceOrderRepository(db *DB, prefix string) *OrderRepository {
	stats := fmt.Sprintf("%s.%swc_order_stats", ShopAlias, prefix)
	lookup := fmt.Sprintf("%s.%swc_order_product_lookup", ShopAlias, prefix)
	posts := fmt.Sprintf("%s.%sposts", ShopAlias, prefix)

	return &OrderRepository{
		db:     db,
		source: "woocommerce",
		pairsQuery: fmt.Sprintf(`SELECT s.order_id, l.product_id
			FROM %s s
			JOIN %s l ON l.order_id = s.order_id
			ORDER BY s.order_id, l.product_id`, stats, lookup),
		nameQuery: fmt.Sprintf(`SELECT post_title FROM %s WHERE ID = ?`, posts),
	}
}

// Source names the backing store for logs and metrics.
func (r *OrderRepository) Source() string {
	return r.source
}

// OrderItems streams every (orderID, productID) pair ascending by order id.
// It implements basket.PairSource.
func (r *OrderRepository) OrderItems(ctx context.Context, fn func(orderID int64, itemID basket.ItemID) error) error {
	rows, err := r.db.conn.QueryContext(ctx, r.pairsQuery)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var orderID int64
		var productID sql.NullInt64
		if err := rows.Scan(&orderID, &productID); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if !productID.Valid {
			continue
		}
		if err := fn(orderID, basket.ItemID(productID.Int64)); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ProductName returns the display name of a product. found is false when
// the product does not exist.
func (r *OrderRepository) ProductName(ctx context.Context, id basket.ItemID) (name string, found bool, err error) {
	var title sql.NullString
	err = r.db.conn.QueryRowContext(ctx, r.nameQuery, int64(id)).Scan(&title)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("failed to look up product %d: %w", id, err)
	case !title.Valid:
		return "", false, nil
	}
	return title.String, true, nil
}

// CountOrderItems returns the number of local order_items rows.
func (db *DB) CountOrderItems(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM order_items").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count order items: %w", err)
	}
	return n, nil
}

// InsertOrderItems appends (orderID, productID) pairs to the local table in
// one transaction.
func (db *DB) InsertOrderItems(ctx context.Context, pairs [][2]int64) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO order_items (order_id, product_id) VALUES (?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer closeQuietly(stmt)

		for _, p := range pairs {
			if _, err := stmt.ExecContext(ctx, p[0], p[1]); err != nil {
				return fmt.Errorf("failed to insert order item (%d, %d): %w", p[0], p[1], err)
			}
		}
		return nil
	})
}

// UpsertProduct writes a product display name to the local products table.
func (db *DB) UpsertProduct(ctx context.Context, id int64, title string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO products (product_id, post_title) VALUES (?, ?)
		 ON CONFLICT (product_id) DO UPDATE SET post_title = excluded.post_title`, id, title)
	if err != nil {
		return fmt.Errorf("failed to upsert product %d: %w", id, err)
	}
	return nil
}
