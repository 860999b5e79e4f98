// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"errors"
	"fmt"
)

// ErrEmptyInput marks an informational early exit: there was nothing to
// mine or nothing survived a threshold. It is not a run failure.
var ErrEmptyInput = errors.New("empty input")

var (
	// ErrNoTransactions is returned when extraction produced no transactions.
	ErrNoTransactions = fmt.Errorf("%w: no transactions", ErrEmptyInput)

	// ErrNoFrequentItemsets is returned when no itemset met the support threshold.
	ErrNoFrequentItemsets = fmt.Errorf("%w: no frequent itemsets", ErrEmptyInput)

	// ErrNoRules is returned when no rule met the confidence threshold.
	ErrNoRules = fmt.Errorf("%w: no rules above confidence threshold", ErrEmptyInput)
)

// DataSourceError reports that the order/item repository could not be read.
// It aborts a mining run.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed write or lookup for a single edge.
// The edge is skipped and the run continues.
type PersistenceError struct {
	Op  string
	In  ItemID
	Out ItemID
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist edge %d->%d (%s): %v", e.In, e.Out, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
