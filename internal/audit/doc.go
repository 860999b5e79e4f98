// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package audit keeps a durable history of mining runs.

Every finished run (completed, empty or failed) becomes an Entry with its
trigger, outcome, timing and result sizes. Entries arrive from the event
bus:

	history := audit.NewLogger(store, audit.DefaultConfig())
	bus.Handle("run-history", history.HandleRunEvent)

Writes go through a buffered channel drained by one goroutine, so a slow
database never stalls event delivery. A full buffer drops the entry and
logs a warning.

# Stores

  - DuckDBStore: the mining_runs table in the application database
  - MemoryStore: bounded in-memory store for tests and ephemeral setups

# Retention

Logger.Serve deletes entries older than RetentionDays on every
CleanupInterval tick. It runs under the supervisor tree.
*/
package audit
