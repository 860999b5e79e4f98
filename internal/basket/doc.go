// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package basket implements the market-basket association pipeline primitives:
transaction extraction, sparse itemset encoding, Apriori frequent-itemset
mining, association rule generation and the pairwise edge explosion used by
the rule store.

# Pipeline

	pairs (order, item)   Extract    -> []Transaction
	[]Transaction         Encode     -> *Encoding (sorted column-index rows)
	*Encoding             Miner.Mine -> []FrequentItemset
	[]FrequentItemset     Generate   -> []Rule
	[]Rule                Explode    -> []Edge (antecedent x consequent)

Every stage is deterministic for a fixed input: transactions are ordered by
ascending order id, the item universe is sorted ascending, frequent itemsets
are returned by size then lexicographically, and rules are returned in
canonical (antecedent, consequent) order.

# Itemsets

An Itemset is a sorted, duplicate-free slice of ItemIDs. Its Key is the
canonical, order-independent encoding used for map keys and for exact-match
recommendation queries:

	basket.NewItemset(3, 1, 2).Key() // "1,2,3"

# Errors

Mining a zero-transaction input fails with ErrNoTransactions, which wraps
ErrEmptyInput. Callers treat ErrEmptyInput as an informational early exit
rather than a failure. Repository failures are reported as *DataSourceError
and per-edge store failures as *PersistenceError.

# Thread Safety

Encoding, FrequentItemset and Rule values are immutable after construction
and safe for concurrent reads. EdgeSet is not safe for concurrent use.
*/
package basket
