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
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tomtom215/basketry/internal/logging"
)

// CSV file names looked up by ImportCSV.
const (
	OrderItemsCSV = "order_items.csv"
	ProductsCSV   = "products.csv"
)

// ImportResult reports how many rows ImportCSV loaded.
type ImportResult struct {
	OrderItems int64
	Products   int64
}

// ImportCSV seeds the local order tables from dir/order_items.csv
// (order_id, product_id) and dir/products.csv (product_id, post_title).
// order_items is replaced wholesale; products are upserted. Either file may
// be absent.
func (db *DB) ImportCSV(ctx context.Context, dir string) (ImportResult, error) {
	var res ImportResult

	itemsPath := filepath.Join(dir, OrderItemsCSV)
	if ok, err := fileExists(itemsPath); err != nil {
		return res, err
	} else if ok {
		n, err := db.importOrderItems(ctx, itemsPath)
		if err != nil {
			return res, err
		}
		res.OrderItems = n
	}

	productsPath := filepath.Join(dir, ProductsCSV)
	if ok, err := fileExists(productsPath); err != nil {
		return res, err
	} else if ok {
		n, err := db.importProducts(ctx, productsPath)
		if err != nil {
			return res, err
		}
		res.Products = n
	}

	logging.Info().
		Str("dir", dir).
		Int64("order_items", res.OrderItems).
		Int64("products", res.Products).
		Msg("Imported local order data from CSV")
	return res, nil
}

func (db *DB) importOrderItems(ctx context.Context, path string) (int64, error) {
	var n int64
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM order_items"); err != nil {
			return fmt.Errorf("failed to clear order_items: %w", err)
		}
		res, err := tx.ExecContext(ctx, fmt.Sprintf(`INSERT INTO order_items (order_id, product_id)
			SELECT order_id, product_id
			FROM read_csv(%s, header = true, columns = {'order_id': 'BIGINT', 'product_id': 'BIGINT'})
			WHERE order_id IS NOT NULL AND product_id IS NOT NULL`, sqlLiteral(path)))
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		n, _ = res.RowsAffected()
		return nil
	})
	return n, err
}

func (db *DB) importProducts(ctx context.Context, path string) (int64, error) {
	res, err := db.conn.ExecContext(ctx, fmt.Sprintf(`INSERT OR REPLACE INTO products (product_id, post_title)
		SELECT product_id, any_value(post_title)
		FROM read_csv(%s, header = true, columns = {'product_id': 'BIGINT', 'post_title': 'VARCHAR'})
		WHERE product_id IS NOT NULL AND post_title IS NOT NULL
		GROUP BY product_id`, sqlLiteral(path)))
	if err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", path, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// sqlLiteral quotes s as a SQL string literal. Table functions such as
// read_csv take the path as a constant, not a bind parameter.
func sqlLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	case info.IsDir():
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}
