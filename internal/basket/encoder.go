// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"slices"
)

// Encoding is the sparse presence representation of a transaction list.
//
// Columns are the item universe sorted ascending, so column order matches
// item order. Each row holds the sorted column indexes present in one
// transaction; no dense boolean matrix is ever materialised.
type Encoding struct {
	universe []ItemID
	columns  map[ItemID]int32
	rows     [][]int32
}

// Encode builds the encoding, discovering the item universe from the
// transactions themselves.
func Encode(txs []Transaction) *Encoding {
	columns := make(map[ItemID]int32)
	universe := make([]ItemID, 0)
	for _, tx := range txs {
		for _, id := range tx.Items {
			if _, ok := columns[id]; !ok {
				columns[id] = 0
				universe = append(universe, id)
			}
		}
	}
	slices.Sort(universe)
	for i, id := range universe {
		columns[id] = int32(i)
	}

	rows := make([][]int32, len(txs))
	for i, tx := range txs {
		row := make([]int32, 0, len(tx.Items))
		for _, id := range tx.Items {
			row = append(row, columns[id])
		}
		// Items are sorted and columns follow item order, but sort anyway so
		// callers may hand in non-canonical itemsets.
		slices.Sort(row)
		rows[i] = slices.Compact(row)
	}

	return &Encoding{
		universe: universe,
		columns:  columns,
		rows:     rows,
	}
}

// NumTransactions returns the number of encoded rows.
func (e *Encoding) NumTransactions() int {
	return len(e.rows)
}

// NumItems returns the size of the item universe.
func (e *Encoding) NumItems() int {
	return len(e.universe)
}

// Universe returns a copy of the item universe in column order.
func (e *Encoding) Universe() []ItemID {
	return slices.Clone(e.universe)
}

// Column returns the column index of an item.
func (e *Encoding) Column(id ItemID) (int32, bool) {
	col, ok := e.columns[id]
	return col, ok
}

// Item returns the item stored in a column.
func (e *Encoding) Item(col int32) ItemID {
	return e.universe[col]
}

// Row returns the sorted column indexes of transaction i. The slice is
// shared and must not be modified.
func (e *Encoding) Row(i int) []int32 {
	return e.rows[i]
}

// Decode converts sorted column indexes back into an itemset.
func (e *Encoding) Decode(cols []int32) Itemset {
	out := make(Itemset, len(cols))
	for i, c := range cols {
		out[i] = e.universe[c]
	}
	return out
}

// Presence returns the boolean-table view of the encoding.
func (e *Encoding) Presence() PresenceTable {
	return PresenceTable{enc: e}
}

// PresenceTable exposes the encoding as rows = transactions and
// columns = items without materialising the matrix.
type PresenceTable struct {
	enc *Encoding
}

// Rows returns the number of transactions.
func (p PresenceTable) Rows() int {
	return p.enc.NumTransactions()
}

// Columns returns the number of items.
func (p PresenceTable) Columns() int {
	return p.enc.NumItems()
}

// Present reports whether the item in column col occurs in transaction row.
func (p PresenceTable) Present(row, col int) bool {
	if row < 0 || row >= len(p.enc.rows) || col < 0 || col >= len(p.enc.universe) {
		return false
	}
	_, found := slices.BinarySearch(p.enc.rows[row], int32(col))
	return found
}
