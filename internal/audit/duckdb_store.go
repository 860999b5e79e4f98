// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/metrics"
)

// DuckDBStore implements Store on the application's DuckDB database.
type DuckDBStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewDuckDBStore creates a DuckDB-backed store. Call CreateTable before use.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

// CreateTable creates the mining_runs table if it doesn't exist.
func (s *DuckDBStore) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS mining_runs (
			run_id TEXT PRIMARY KEY,
			trigger_name TEXT NOT NULL,
			outcome TEXT NOT NULL,
			message TEXT NOT NULL,
			error TEXT,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL,
			duration_ms BIGINT NOT NULL,
			transactions INTEGER NOT NULL,
			frequent_itemsets INTEGER NOT NULL,
			rules INTEGER NOT NULL,
			edges_stored INTEGER NOT NULL,
			summary JSON,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`

	// INSERT OR REPLACE requires the primary key to be the only index.
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create mining_runs table: %w", err)
	}

	logging.Debug().Msg("Mining run history table created/verified")
	return nil
}

// Save inserts or replaces an entry.
func (s *DuckDBStore) Save(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var summary *string
	if len(entry.Summary) > 0 {
		v := string(entry.Summary)
		summary = &v
	}
	var errText *string
	if entry.Error != "" {
		errText = &entry.Error
	}

	start := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO mining_runs (
			run_id, trigger_name, outcome, message, error,
			started_at, finished_at, duration_ms,
			transactions, frequent_itemsets, rules, edges_stored,
			summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID, entry.Trigger, string(entry.Outcome), entry.Message, errText,
		entry.StartedAt.UTC(), entry.FinishedAt.UTC(), entry.DurationMS,
		entry.Transactions, entry.FrequentItemsets, entry.Rules, entry.EdgesStored,
		summary,
	)
	metrics.RecordDBQuery("insert", "mining_runs", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to save mining run %s: %w", entry.RunID, err)
	}
	return nil
}

// buildWhere renders the filter as a WHERE clause.
func buildWhere(filter QueryFilter, args *[]interface{}) string {
	var conditions []string
	if len(filter.Outcomes) > 0 {
		placeholders := make([]string, len(filter.Outcomes))
		for i, o := range filter.Outcomes {
			placeholders[i] = "?"
			*args = append(*args, string(o))
		}
		conditions = append(conditions, fmt.Sprintf("outcome IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Trigger != "" {
		conditions = append(conditions, "trigger_name = ?")
		*args = append(*args, filter.Trigger)
	}
	if filter.Since != nil {
		conditions = append(conditions, "finished_at >= ?")
		*args = append(*args, filter.Since.UTC())
	}
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

// Query returns matching entries, newest first.
func (s *DuckDBStore) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	filter = filter.normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var args []interface{}
	query := `
		SELECT run_id, trigger_name, outcome, message, error,
			started_at, finished_at, duration_ms,
			transactions, frequent_itemsets, rules, edges_stored,
			CAST(summary AS VARCHAR)
		FROM mining_runs` + buildWhere(filter, &args) + `
		ORDER BY finished_at DESC, run_id
		LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "mining_runs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query mining runs: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e       Entry
			outcome string
			errText sql.NullString
			summary sql.NullString
		)
		if err := rows.Scan(
			&e.RunID, &e.Trigger, &outcome, &e.Message, &errText,
			&e.StartedAt, &e.FinishedAt, &e.DurationMS,
			&e.Transactions, &e.FrequentItemsets, &e.Rules, &e.EdgesStored,
			&summary,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mining run: %w", err)
		}
		e.Outcome = Outcome(outcome)
		e.Error = errText.String
		if summary.Valid {
			e.Summary = []byte(summary.String)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mining runs: %w", err)
	}
	return entries, nil
}

// Count returns the number of matching entries, ignoring limit and offset.
func (s *DuckDBStore) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var args []interface{}
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mining_runs"+buildWhere(filter, &args), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count mining runs: %w", err)
	}
	return n, nil
}

// Delete removes entries that finished before olderThan.
func (s *DuckDBStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM mining_runs WHERE finished_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old mining runs: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted count: %w", err)
	}
	return count, nil
}
