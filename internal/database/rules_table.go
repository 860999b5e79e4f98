// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/basketry/internal/basket"
)

// ReplaceRules swaps the association_rules table for the given rule set in
// one transaction. Readers see either the previous run's rules or the new
// ones, never a mix.
func (db *DB) ReplaceRules(ctx context.Context, rules []basket.Rule) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS association_rules"); err != nil {
			return fmt.Errorf("failed to drop association_rules: %w", err)
		}
		if _, err := tx.ExecContext(ctx, createRulesTable); err != nil {
			return fmt.Errorf("failed to create association_rules: %w", err)
		}
		if len(rules) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO association_rules
			(antecedent_key, consequent_key, antecedent_size, consequent_size,
			 support, antecedent_support, consequent_support, confidence, lift, leverage)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare rule insert: %w", err)
		}
		defer closeQuietly(stmt)

		for _, r := range rules {
			if _, err := stmt.ExecContext(ctx,
				r.Antecedent.Key(), r.Consequent.Key(),
				len(r.Antecedent), len(r.Consequent),
				r.Support, r.AntecedentSupport, r.ConsequentSupport,
				r.Confidence, r.Lift, r.Leverage,
			); err != nil {
				return fmt.Errorf("failed to insert rule %s: %w", r.Key(), err)
			}
		}
		return nil
	})
}

// RulesByAntecedent returns the stored rules whose antecedent is exactly
// items, by confidence descending and consequent ascending.
func (db *DB) RulesByAntecedent(ctx context.Context, items basket.Itemset) ([]basket.Rule, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT consequent_key, support, antecedent_support, consequent_support,
			confidence, lift, leverage
		FROM association_rules
		WHERE antecedent_key = ?`, items.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to query rules for %s: %w", items, err)
	}
	defer closeQuietly(rows)

	var rules []basket.Rule
	for rows.Next() {
		var consKey string
		r := basket.Rule{Antecedent: items}
		if err := rows.Scan(&consKey, &r.Support, &r.AntecedentSupport, &r.ConsequentSupport,
			&r.Confidence, &r.Lift, &r.Leverage); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		if r.Consequent, err = basket.ParseItemset(consKey); err != nil {
			return nil, fmt.Errorf("corrupt consequent %q: %w", consKey, err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}
	// Every row already matches; this only applies the ranking order.
	return basket.RulesForAntecedent(rules, items), nil
}

// CountRules returns the number of stored multi-item rules.
func (db *DB) CountRules(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM association_rules").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return n, nil
}
