// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ItemID identifies a product. Values <= 0 are invalid.
type ItemID int64

// Valid reports whether the id is a usable product id.
func (id ItemID) Valid() bool {
	return id > 0
}

// Itemset is a sorted, duplicate-free set of item ids.
// The zero value is the empty set.
type Itemset []ItemID

// NewItemset builds a canonical itemset from ids in any order.
// Duplicates are collapsed; invalid ids are kept as given so callers
// can validate separately.
func NewItemset(ids ...ItemID) Itemset {
	if len(ids) == 0 {
		return Itemset{}
	}
	out := make(Itemset, len(ids))
	copy(out, ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// Len returns the number of items in the set.
func (s Itemset) Len() int {
	return len(s)
}

// Key returns the canonical comma-separated encoding of the set.
func (s Itemset) Key() string {
	if len(s) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s) * 6)
	for i, id := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(id), 10))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (s Itemset) String() string {
	return "{" + s.Key() + "}"
}

// Equal reports whether both sets hold the same items.
func (s Itemset) Equal(other Itemset) bool {
	return slices.Equal(s, other)
}

// Contains reports whether id is a member of the set.
func (s Itemset) Contains(id ItemID) bool {
	_, found := slices.BinarySearch(s, id)
	return found
}

// Compare orders itemsets lexicographically, shorter prefix first.
func (s Itemset) Compare(other Itemset) int {
	return slices.Compare(s, other)
}

// ParseItemset parses the canonical key form ("1,2,3"). Whitespace around
// ids is ignored and the result is canonicalised.
func ParseItemset(key string) (Itemset, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Itemset{}, nil
	}
	parts := strings.Split(key, ",")
	ids := make([]ItemID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse item id %q: %w", p, err)
		}
		ids = append(ids, ItemID(v))
	}
	return NewItemset(ids...), nil
}
