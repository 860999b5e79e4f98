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

	"github.com/tomtom215/basketry/internal/basket"
)

// NotFoundName is stored when a product display name cannot be resolved.
const NotFoundName = "Not Found"

// confidenceScale converts between the 0-1 rule confidence and the 0-100
// value persisted in association_edges.
const confidenceScale = 100.0

// StoredEdge is one row of the pairwise rule store. Confidence is on the
// 0-1 scale.
type StoredEdge struct {
	In         basket.ItemID
	NameIn     string
	Out        basket.ItemID
	NameOut    string
	Confidence float64
}

// AssociationStore persists pairwise edges keyed by (product_id_in,
// product_id_out). At most one row exists per key and it always carries the
// highest confidence seen since the last DropAndRecreate.
type AssociationStore struct {
	db *DB
}

// NewAssociationStore returns the rule store backed by db.
func NewAssociationStore(db *DB) *AssociationStore {
	return &AssociationStore{db: db}
}

// DropAndRecreate empties the store by dropping and recreating the table.
func (s *AssociationStore) DropAndRecreate(ctx context.Context) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS association_edges"); err != nil {
			return fmt.Errorf("failed to drop association_edges: %w", err)
		}
		if _, err := tx.ExecContext(ctx, createEdgesTable); err != nil {
			return fmt.Errorf("failed to create association_edges: %w", err)
		}
		return nil
	})
}

// Upsert writes one edge under the max-confidence rule: if a row with
// confidence >= the new one exists, the new edge is discarded; otherwise
// the existing row is replaced. Each call commits its own transaction.
//
// Failures are returned as *basket.PersistenceError.
func (s *AssociationStore) Upsert(ctx context.Context, e basket.Edge, nameIn, nameOut string) (basket.UpsertOutcome, error) {
	if nameIn == "" {
		nameIn = NotFoundName
	}
	if nameOut == "" {
		nameOut = NotFoundName
	}
	incoming := e.Confidence * confidenceScale

	outcome := basket.UpsertInserted
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		var existing float64
		err := tx.QueryRowContext(ctx,
			"SELECT confidence FROM association_edges WHERE product_id_in = ? AND product_id_out = ?",
			int64(e.In), int64(e.Out)).Scan(&existing)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			outcome = basket.UpsertInserted
			_, err = tx.ExecContext(ctx,
				`INSERT INTO association_edges (product_id_in, post_title_in, product_id_out, post_title_out, confidence)
				 VALUES (?, ?, ?, ?, ?)`,
				int64(e.In), nameIn, int64(e.Out), nameOut, incoming)
			return wrapEdgeErr("insert", e, err)

		case err != nil:
			return wrapEdgeErr("lookup", e, err)

		case basket.KeepIncumbent(existing, incoming):
			outcome = basket.UpsertDiscarded
			return nil
		}

		// DuckDB rejects delete-then-insert of the same key inside one
		// transaction, so the replacement rewrites the non-key columns.
		outcome = basket.UpsertReplaced
		_, err = tx.ExecContext(ctx,
			`UPDATE association_edges SET post_title_in = ?, post_title_out = ?, confidence = ?
			 WHERE product_id_in = ? AND product_id_out = ?`,
			nameIn, nameOut, incoming, int64(e.In), int64(e.Out))
		return wrapEdgeErr("replace", e, err)
	})
	if err != nil {
		var pe *basket.PersistenceError
		if !errors.As(err, &pe) {
			err = &basket.PersistenceError{Op: "commit", In: e.In, Out: e.Out, Err: err}
		}
		return outcome, err
	}
	return outcome, nil
}

func wrapEdgeErr(op string, e basket.Edge, err error) error {
	if err == nil {
		return nil
	}
	return &basket.PersistenceError{Op: op, In: e.In, Out: e.Out, Err: err}
}

// QueryByIn returns the edges leaving productIn, by confidence descending
// and product_id_out ascending. limit <= 0 returns every edge.
func (s *AssociationStore) QueryByIn(ctx context.Context, productIn basket.ItemID, limit int) ([]StoredEdge, error) {
	query := `SELECT product_id_in, post_title_in, product_id_out, post_title_out, confidence
		FROM association_edges
		WHERE product_id_in = ?
		ORDER BY confidence DESC, product_id_out ASC`
	args := []any{int64(productIn)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query associations for %d: %w", productIn, err)
	}
	defer closeQuietly(rows)

	edges := make([]StoredEdge, 0)
	for rows.Next() {
		var in, out int64
		var se StoredEdge
		var conf float64
		if err := rows.Scan(&in, &se.NameIn, &out, &se.NameOut, &conf); err != nil {
			return nil, fmt.Errorf("failed to scan association: %w", err)
		}
		se.In = basket.ItemID(in)
		se.Out = basket.ItemID(out)
		se.Confidence = conf / confidenceScale
		edges = append(edges, se)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate associations: %w", err)
	}
	return edges, nil
}

// Count returns the number of stored edges.
func (s *AssociationStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM association_edges").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count associations: %w", err)
	}
	return n, nil
}
