// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

//go:build integration

package testinfra

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestSeedSQL(t *testing.T) {
	sql := seedSQL("wp_", [][2]int64{{2, 11}, {1, 10}, {1, 11}}, map[int64]string{10: "Baker's Tea", 11: "Mug"})

	for _, want := range []string{
		"CREATE TABLE wp_wc_order_stats",
		"CREATE TABLE wp_wc_order_product_lookup",
		"CREATE TABLE wp_posts",
		"INSERT INTO wp_wc_order_product_lookup (order_id, product_id) VALUES (2, 11);",
		"INSERT INTO wp_posts (ID, post_title) VALUES (10, 'Baker''s Tea');",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("seed SQL missing %q", want)
		}
	}

	if got := strings.Count(sql, "INSERT INTO wp_wc_order_stats"); got != 2 {
		t.Errorf("order stats rows = %d, want 2 (one per distinct order)", got)
	}
	first := strings.Index(sql, "VALUES (1);")
	second := strings.Index(sql, "VALUES (2);")
	if first < 0 || second < first {
		t.Error("order stats rows are not sorted by order id")
	}
}

func TestWooCommerceContainer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	shop, err := NewWooCommerceContainer(ctx, WithOrders([][2]int64{{1, 10}}))
	if err != nil {
		t.Fatalf("Failed to create MySQL container: %v", err)
	}
	defer CleanupContainer(t, ctx, shop.Container)

	for _, want := range []string{"host=", "port=", "user=shop", "database=" + DefaultShopDatabase} {
		if !strings.Contains(shop.DSN, want) {
			t.Errorf("DSN %q missing %q", shop.DSN, want)
		}
	}
	if shop.TablePrefix != DefaultTablePrefix {
		t.Errorf("TablePrefix = %q", shop.TablePrefix)
	}
}
