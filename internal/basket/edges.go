// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"slices"
)

// Edge is a single-item to single-item association, the unit the rule
// store persists.
type Edge struct {
	In         ItemID  `json:"product_in"`
	Out        ItemID  `json:"product_out"`
	Confidence float64 `json:"confidence"`
}

// Key returns the composite store key of the edge.
func (e Edge) Key() EdgeKey {
	return EdgeKey{In: e.In, Out: e.Out}
}

// EdgeKey is the composite (productIn, productOut) key.
type EdgeKey struct {
	In  ItemID
	Out ItemID
}

// Explode flattens rules into pairwise edges: every antecedent item is
// linked to every consequent item with the rule's confidence. Edges are
// emitted in rule order, which is the order the store will see them.
func Explode(rules []Rule) []Edge {
	n := 0
	for _, r := range rules {
		n += len(r.Antecedent) * len(r.Consequent)
	}
	edges := make([]Edge, 0, n)
	for _, r := range rules {
		for _, in := range r.Antecedent {
			for _, out := range r.Consequent {
				edges = append(edges, Edge{In: in, Out: out, Confidence: r.Confidence})
			}
		}
	}
	return edges
}

// UpsertOutcome describes what a max-confidence upsert did.
type UpsertOutcome int

const (
	// UpsertInserted means no edge existed for the pair.
	UpsertInserted UpsertOutcome = iota
	// UpsertReplaced means a weaker edge was removed and the new one written.
	UpsertReplaced
	// UpsertDiscarded means an edge with confidence >= the new one was kept.
	UpsertDiscarded
)

func (o UpsertOutcome) String() string {
	switch o {
	case UpsertInserted:
		return "inserted"
	case UpsertReplaced:
		return "replaced"
	case UpsertDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// KeepIncumbent is the conflict rule shared by every store: the existing
// edge wins when its confidence is greater than or equal to the new one.
func KeepIncumbent(existing, incoming float64) bool {
	return existing >= incoming
}

// EdgeSet is an in-memory rule store keyed by EdgeKey.
// It is not safe for concurrent use.
type EdgeSet struct {
	edges map[EdgeKey]float64
}

// NewEdgeSet creates an empty edge set.
func NewEdgeSet() *EdgeSet {
	return &EdgeSet{edges: make(map[EdgeKey]float64)}
}

// Upsert applies the max-confidence rule for one edge.
func (s *EdgeSet) Upsert(e Edge) UpsertOutcome {
	existing, ok := s.edges[e.Key()]
	if ok && KeepIncumbent(existing, e.Confidence) {
		return UpsertDiscarded
	}
	s.edges[e.Key()] = e.Confidence
	if ok {
		return UpsertReplaced
	}
	return UpsertInserted
}

// Get returns the stored confidence for a pair.
func (s *EdgeSet) Get(in, out ItemID) (float64, bool) {
	c, ok := s.edges[EdgeKey{In: in, Out: out}]
	return c, ok
}

// Len returns the number of stored edges.
func (s *EdgeSet) Len() int {
	return len(s.edges)
}

// Outgoing returns the edges leaving in, by confidence descending and
// product id ascending.
func (s *EdgeSet) Outgoing(in ItemID) []Edge {
	var out []Edge
	for k, c := range s.edges {
		if k.In == in {
			out = append(out, Edge{In: k.In, Out: k.Out, Confidence: c})
		}
	}
	SortEdges(out)
	return out
}

// Edges returns every stored edge ordered by (In, Out).
func (s *EdgeSet) Edges() []Edge {
	out := make([]Edge, 0, len(s.edges))
	for k, c := range s.edges {
		out = append(out, Edge{In: k.In, Out: k.Out, Confidence: c})
	}
	slices.SortFunc(out, func(a, b Edge) int {
		if a.In != b.In {
			if a.In < b.In {
				return -1
			}
			return 1
		}
		if a.Out < b.Out {
			return -1
		}
		if a.Out > b.Out {
			return 1
		}
		return 0
	})
	return out
}

// SortEdges orders edges by confidence descending, then Out ascending.
func SortEdges(edges []Edge) {
	slices.SortFunc(edges, func(a, b Edge) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		case a.Out < b.Out:
			return -1
		case a.Out > b.Out:
			return 1
		}
		return 0
	})
}
