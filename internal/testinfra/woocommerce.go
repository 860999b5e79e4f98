// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMySQLImage is the MySQL image the shop database runs on.
	DefaultMySQLImage = "mysql:8.0"

	// DefaultMySQLPort is the MySQL listen port inside the container.
	DefaultMySQLPort = "3306"

	// DefaultShopDatabase is the WooCommerce schema name.
	DefaultShopDatabase = "wp_ecommerce"

	// DefaultTablePrefix is the WordPress table prefix used by the seed.
	DefaultTablePrefix = "wp_"

	shopUser     = "shop"
	shopPassword = "shop"
)

// WooCommerceContainer is a running MySQL container holding a seeded
// WooCommerce schema.
type WooCommerceContainer struct {
	testcontainers.Container

	// DSN is a libmysql key=value DSN for database.AttachMySQL.
	DSN string

	// TablePrefix is the WordPress table prefix of the seeded tables.
	TablePrefix string
}

// WooCommerceOption configures the container.
type WooCommerceOption func(*wooConfig)

type wooConfig struct {
	image        string
	prefix       string
	orders       [][2]int64
	products     map[int64]string
	startTimeout time.Duration
}

// WithMySQLImage sets a custom MySQL image.
func WithMySQLImage(image string) WooCommerceOption {
	return func(c *wooConfig) {
		c.image = image
	}
}

// WithTablePrefix overrides the WordPress table prefix.
func WithTablePrefix(prefix string) WooCommerceOption {
	return func(c *wooConfig) {
		c.prefix = prefix
	}
}

// WithOrders seeds (order id, product id) line items. Every distinct order
// id gets a wc_order_stats row.
func WithOrders(pairs [][2]int64) WooCommerceOption {
	return func(c *wooConfig) {
		c.orders = append(c.orders, pairs...)
	}
}

// WithProducts seeds product posts keyed by product id.
func WithProducts(names map[int64]string) WooCommerceOption {
	return func(c *wooConfig) {
		for id, name := range names {
			c.products[id] = name
		}
	}
}

// WithStartTimeout sets the timeout for waiting for MySQL to accept
// connections.
func WithStartTimeout(timeout time.Duration) WooCommerceOption {
	return func(c *wooConfig) {
		c.startTimeout = timeout
	}
}

// NewWooCommerceContainer creates and starts a MySQL container and seeds
// it through the image's init script directory.
func NewWooCommerceContainer(ctx context.Context, opts ...WooCommerceOption) (*WooCommerceContainer, error) {
	cfg := &wooConfig{
		image:        DefaultMySQLImage,
		prefix:       DefaultTablePrefix,
		products:     make(map[int64]string),
		startTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	seed := seedSQL(cfg.prefix, cfg.orders, cfg.products)

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultMySQLPort + "/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "root",
			"MYSQL_DATABASE":      DefaultShopDatabase,
			"MYSQL_USER":          shopUser,
			"MYSQL_PASSWORD":      shopPassword,
		},
		Files: []testcontainers.ContainerFile{
			{
				Reader:            strings.NewReader(seed),
				ContainerFilePath: "/docker-entrypoint-initdb.d/01-woocommerce.sql",
				FileMode:          0o644,
			},
		},
		// The entrypoint starts a temporary server for the init scripts
		// first, so the second "ready" line is the real one.
		WaitingFor: wait.ForAll(
			wait.ForLog("ready for connections").WithOccurrence(2),
			wait.ForListeningPort(DefaultMySQLPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create mysql container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, DefaultMySQLPort+"/tcp")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &WooCommerceContainer{
		Container: container,
		DSN: fmt.Sprintf("host=%s port=%s user=%s password=%s database=%s",
			host, port.Port(), shopUser, shopPassword, DefaultShopDatabase),
		TablePrefix: cfg.prefix,
	}, nil
}

// seedSQL renders the schema and seed rows. Only the columns the order
// repository reads are created.
func seedSQL(prefix string, orders [][2]int64, products map[int64]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CREATE TABLE %swc_order_stats (order_id BIGINT UNSIGNED PRIMARY KEY, status VARCHAR(20) NOT NULL DEFAULT 'wc-completed');\n", prefix)
	fmt.Fprintf(&b, "CREATE TABLE %swc_order_product_lookup (order_item_id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY, order_id BIGINT UNSIGNED NOT NULL, product_id BIGINT UNSIGNED NOT NULL);\n", prefix)
	fmt.Fprintf(&b, "CREATE TABLE %sposts (ID BIGINT UNSIGNED PRIMARY KEY, post_title TEXT NOT NULL, post_type VARCHAR(20) NOT NULL DEFAULT 'product');\n", prefix)

	seen := make(map[int64]bool)
	var orderIDs []int64
	for _, p := range orders {
		if !seen[p[0]] {
			seen[p[0]] = true
			orderIDs = append(orderIDs, p[0])
		}
	}
	slices.Sort(orderIDs)
	for _, id := range orderIDs {
		fmt.Fprintf(&b, "INSERT INTO %swc_order_stats (order_id) VALUES (%d);\n", prefix, id)
	}
	for _, p := range orders {
		fmt.Fprintf(&b, "INSERT INTO %swc_order_product_lookup (order_id, product_id) VALUES (%d, %d);\n", prefix, p[0], p[1])
	}

	ids := make([]int64, 0, len(products))
	for id := range products {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		title := strings.ReplaceAll(products[id], "'", "''")
		fmt.Fprintf(&b, "INSERT INTO %sposts (ID, post_title) VALUES (%d, '%s');\n", prefix, id, title)
	}
	return b.String()
}
