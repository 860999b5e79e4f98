// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/basketry/internal/logging"
)

// ShopAlias is the catalog name the WooCommerce database is attached under.
const ShopAlias = "shop"

// AttachMySQL attaches a MySQL database read-only through the DuckDB mysql
// extension. The shop tables can then be queried as shop.<table> without
// copying them.
//
// dsn uses the libmysql key=value format, e.g.
// "host=127.0.0.1 user=shop password=secret database=wp_ecommerce".
func (db *DB) AttachMySQL(ctx context.Context, dsn string) error {
	if strings.Contains(dsn, "'") {
		return fmt.Errorf("mysql dsn must not contain single quotes")
	}

	db.attachMu.Lock()
	defer db.attachMu.Unlock()

	if db.attached != "" {
		return nil
	}

	if err := db.ensureExtension(ctx, "mysql"); err != nil {
		return err
	}

	stmt := fmt.Sprintf("ATTACH '%s' AS %s (TYPE MYSQL, READ_ONLY)", dsn, ShopAlias)
	if err := db.execWithHardTimeout(ctx, stmt, extensionTimeout); err != nil {
		return fmt.Errorf("failed to attach mysql source: %w", err)
	}

	db.attached = ShopAlias
	logging.Info().Str("alias", ShopAlias).Msg("Attached MySQL shop database (read-only)")
	return nil
}

// DetachSource detaches the shop database if one is attached.
func (db *DB) DetachSource(ctx context.Context) error {
	db.attachMu.Lock()
	defer db.attachMu.Unlock()

	if db.attached == "" {
		return nil
	}
	if _, err := db.conn.ExecContext(ctx, "DETACH "+db.attached); err != nil {
		return fmt.Errorf("failed to detach %s: %w", db.attached, err)
	}
	db.attached = ""
	return nil
}

// SourceAttached reports whether a remote shop database is attached.
func (db *DB) SourceAttached() bool {
	db.attachMu.Lock()
	defer db.attachMu.Unlock()
	return db.attached != ""
}
