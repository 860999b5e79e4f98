// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/basketry/internal/basket"
)

func TestLocalOrderRepository_Extract(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	pairs := [][2]int64{
		{20, 3}, {10, 1}, {10, 2}, {10, 2}, {30, -1}, {20, 1},
	}
	if err := db.InsertOrderItems(ctx, pairs); err != nil {
		t.Fatalf("InsertOrderItems() error = %v", err)
	}

	repo := NewLocalOrderRepository(db)
	if repo.Source() != "local" {
		t.Errorf("Source() = %q", repo.Source())
	}

	var lastOrder int64
	err := repo.OrderItems(ctx, func(orderID int64, _ basket.ItemID) error {
		if orderID < lastOrder {
			t.Errorf("order ids not ascending: %d after %d", orderID, lastOrder)
		}
		lastOrder = orderID
		return nil
	})
	if err != nil {
		t.Fatalf("OrderItems() error = %v", err)
	}

	txs, err := basket.Extract(ctx, repo)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("Extract() returned %d transactions, want 2", len(txs))
	}
	if txs[0].OrderID != 10 || !txs[0].Items.Equal(basket.NewItemset(1, 2)) {
		t.Errorf("txs[0] = %+v", txs[0])
	}
	if txs[1].OrderID != 20 || !txs[1].Items.Equal(basket.NewItemset(1, 3)) {
		t.Errorf("txs[1] = %+v", txs[1])
	}
}

func TestLocalOrderRepository_CallbackError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	if err := db.InsertOrderItems(ctx, [][2]int64{{1, 1}, {2, 2}}); err != nil {
		t.Fatalf("InsertOrderItems() error = %v", err)
	}

	stop := errors.New("stop")
	calls := 0
	err := NewLocalOrderRepository(db).OrderItems(ctx, func(int64, basket.ItemID) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("OrderItems() error = %v, want %v", err, stop)
	}
	if calls != 1 {
		t.Errorf("callback called %d times after error, want 1", calls)
	}
}

func TestLocalOrderRepository_ProductName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.UpsertProduct(ctx, 7, "Old Title"); err != nil {
		t.Fatalf("UpsertProduct() error = %v", err)
	}
	if err := db.UpsertProduct(ctx, 7, "Espresso Beans"); err != nil {
		t.Fatalf("UpsertProduct() second call error = %v", err)
	}

	repo := NewLocalOrderRepository(db)
	name, found, err := repo.ProductName(ctx, 7)
	if err != nil || !found || name != "Espresso Beans" {
		t.Errorf("ProductName(7) = %q, %v, %v", name, found, err)
	}

	name, found, err = repo.ProductName(ctx, 8)
	if err != nil || found || name != "" {
		t.Errorf("ProductName(8) = %q, %v, %v; want not found", name, found, err)
	}
}

func TestWooCommerceOrderRepository_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWooCommerceOrderRepository(db, "wp_")

	if repo.Source() != "woocommerce" {
		t.Errorf("Source() = %q", repo.Source())
	}
	for _, want := range []string{"shop.wp_wc_order_stats", "shop.wp_wc_order_product_lookup", "ORDER BY s.order_id"} {
		if !strings.Contains(repo.pairsQuery, want) {
			t.Errorf("pairs query missing %q:\n%s", want, repo.pairsQuery)
		}
	}
	if !strings.Contains(repo.nameQuery, "shop.wp_posts WHERE ID = ?") {
		t.Errorf("name query = %q", repo.nameQuery)
	}

	// Nothing is attached, so the query must fail rather than read local tables.
	err := repo.OrderItems(context.Background(), func(int64, basket.ItemID) error { return nil })
	if err == nil {
		t.Error("OrderItems() without an attached shop succeeded")
	}
}

func TestImportCSV(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, OrderItemsCSV), "order_id,product_id\n1,10\n1,11\n2,10\n")
	writeFile(t, filepath.Join(dir, ProductsCSV), "product_id,post_title\n10,\"Tea, green\"\n11,Mug\n")

	res, err := db.ImportCSV(ctx, dir)
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if res.OrderItems != 3 || res.Products != 2 {
		t.Errorf("ImportCSV() = %+v, want 3 order items and 2 products", res)
	}

	// Re-import replaces order items instead of duplicating them.
	if _, err := db.ImportCSV(ctx, dir); err != nil {
		t.Fatalf("second ImportCSV() error = %v", err)
	}
	n, err := db.CountOrderItems(ctx)
	if err != nil {
		t.Fatalf("CountOrderItems() error = %v", err)
	}
	if n != 3 {
		t.Errorf("CountOrderItems() = %d after re-import, want 3", n)
	}

	name, found, err := NewLocalOrderRepository(db).ProductName(ctx, 10)
	if err != nil || !found || name != "Tea, green" {
		t.Errorf("ProductName(10) = %q, %v, %v", name, found, err)
	}
}

func TestImportCSV_MissingFiles(t *testing.T) {
	db := setupTestDB(t)

	res, err := db.ImportCSV(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("ImportCSV() on empty dir error = %v", err)
	}
	if res != (ImportResult{}) {
		t.Errorf("ImportCSV() = %+v, want zero result", res)
	}
}

func TestSQLLiteral(t *testing.T) {
	tests := map[string]string{
		"/data/orders.csv":  "'/data/orders.csv'",
		"/data/o'brien.csv": "'/data/o''brien.csv'",
		"":                  "''",
	}
	for in, want := range tests {
		if got := sqlLiteral(in); got != want {
			t.Errorf("sqlLiteral(%q) = %q, want %q", in, got, want)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}
