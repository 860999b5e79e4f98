// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/basketry/internal/logging"
)

// extensionTimeout bounds INSTALL/LOAD, which may download from the
// extension repository.
const extensionTimeout = 60 * time.Second

// execWithHardTimeout executes a statement with a goroutine-based timeout.
// DuckDB CGO calls do not always observe context cancellation, so the
// select is the real bound; the context only helps cleanup.
func (db *DB) execWithHardTimeout(ctx context.Context, query string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		_, err := db.conn.ExecContext(ctx, query)
		resultCh <- err
	}()

	select {
	case err := <-resultCh:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("operation timed out after %v", timeout)
	}
}

// isExtensionLoaded checks duckdb_extensions() for a loaded extension.
func (db *DB) isExtensionLoaded(ctx context.Context, name string) bool {
	var loaded bool
	err := db.conn.QueryRowContext(ctx,
		"SELECT loaded FROM duckdb_extensions() WHERE extension_name = ?", name).Scan(&loaded)
	return err == nil && loaded
}

// ensureExtension installs (if needed) and loads a core extension:
// INSTALL, then LOAD, falling back to FORCE INSTALL once.
func (db *DB) ensureExtension(ctx context.Context, name string) error {
	if db.isExtensionLoaded(ctx, name) {
		return nil
	}

	installErr := db.execWithHardTimeout(ctx, fmt.Sprintf("INSTALL %s;", name), extensionTimeout)
	if installErr != nil {
		logging.Debug().Str("extension", name).Err(installErr).Msg("INSTALL failed, trying LOAD")
	}

	if err := db.execWithHardTimeout(ctx, fmt.Sprintf("LOAD %s;", name), extensionTimeout); err == nil {
		logging.Info().Str("extension", name).Msg("DuckDB extension loaded")
		return nil
	} else if installErr == nil {
		return fmt.Errorf("failed to load %s extension: %w", name, err)
	}

	if err := db.execWithHardTimeout(ctx, fmt.Sprintf("FORCE INSTALL %s;", name), extensionTimeout); err != nil {
		return fmt.Errorf("failed to install %s extension: install error: %w, force install error: %w", name, installErr, err)
	}
	if err := db.execWithHardTimeout(ctx, fmt.Sprintf("LOAD %s;", name), extensionTimeout); err != nil {
		return fmt.Errorf("failed to load %s extension: %w", name, err)
	}

	logging.Info().Str("extension", name).Msg("DuckDB extension loaded")
	return nil
}
