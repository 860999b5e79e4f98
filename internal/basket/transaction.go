// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"context"
	"slices"
)

// PairSource enumerates (order id, item id) pairs from the order repository.
// Implementations should yield pairs in ascending order id, but Extract does
// not rely on it.
type PairSource interface {
	OrderItems(ctx context.Context, fn func(orderID int64, itemID ItemID) error) error
}

// Transaction is the cleaned item set of one order.
type Transaction struct {
	OrderID int64
	Items   Itemset
}

// Extract reads every pair from src in a single pass and groups them into
// transactions. Invalid item ids are dropped, duplicates collapsed and
// orders left empty are discarded. Transactions are returned in ascending
// order id.
//
// Any repository failure is returned as *DataSourceError.
func Extract(ctx context.Context, src PairSource) ([]Transaction, error) {
	byOrder := make(map[int64][]ItemID)

	err := src.OrderItems(ctx, func(orderID int64, itemID ItemID) error {
		if !itemID.Valid() {
			return nil
		}
		byOrder[orderID] = append(byOrder[orderID], itemID)
		return nil
	})
	if err != nil {
		return nil, &DataSourceError{Op: "read order items", Err: err}
	}

	orderIDs := make([]int64, 0, len(byOrder))
	for id := range byOrder {
		orderIDs = append(orderIDs, id)
	}
	slices.Sort(orderIDs)

	txs := make([]Transaction, 0, len(orderIDs))
	for _, id := range orderIDs {
		items := NewItemset(byOrder[id]...)
		if len(items) == 0 {
			continue
		}
		txs = append(txs, Transaction{OrderID: id, Items: items})
	}
	return txs, nil
}

// SliceSource is an in-memory PairSource, mainly for tests and fixtures.
type SliceSource [][2]int64

// OrderItems implements PairSource.
func (s SliceSource) OrderItems(ctx context.Context, fn func(orderID int64, itemID ItemID) error) error {
	for _, p := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(p[0], ItemID(p[1])); err != nil {
			return err
		}
	}
	return nil
}
