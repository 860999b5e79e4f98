// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package testinfra provides containers for integration tests.
//
// The WooCommerceContainer runs MySQL seeded with the subset of the
// WooCommerce schema the order repository reads (wc_order_stats,
// wc_order_product_lookup and posts):
//
//	func TestShopExtract(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    shop, err := testinfra.NewWooCommerceContainer(ctx,
//	        testinfra.WithOrders([][2]int64{{1, 10}, {1, 11}}),
//	        testinfra.WithProducts(map[int64]string{10: "Tea", 11: "Mug"}),
//	    )
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, shop.Container)
//
//	    err = db.AttachMySQL(ctx, shop.DSN)
//	    // ...
//	}
//
// All files carry the integration build tag:
//
//	go test -tags integration ./...
//
// Tests are skipped when Docker is unavailable. The first run pulls the
// MySQL image.
package testinfra
