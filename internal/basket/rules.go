// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"slices"
)

// MaxRuleItemsetSize bounds subset enumeration (2^n antecedents per
// itemset). Larger frequent itemsets contribute no rules.
const MaxRuleItemsetSize = 24

// OversizedItemsets counts the frequent itemsets Generate skips because
// they exceed MaxRuleItemsetSize, and returns the largest size seen.
func OversizedItemsets(frequent []FrequentItemset) (count, largest int) {
	for _, fi := range frequent {
		if n := len(fi.Items); n > MaxRuleItemsetSize {
			count++
			largest = max(largest, n)
		}
	}
	return count, largest
}

// Rule is a directed association antecedent -> consequent.
type Rule struct {
	Antecedent Itemset `json:"antecedent"`
	Consequent Itemset `json:"consequent"`

	// Support is the fraction of transactions containing antecedent ∪ consequent.
	Support float64 `json:"support"`

	AntecedentSupport float64 `json:"antecedent_support"`
	ConsequentSupport float64 `json:"consequent_support"`

	// Confidence is support(A ∪ C) / support(A), in [0, 1].
	Confidence float64 `json:"confidence"`

	// Lift is confidence / support(C). Values above 1 mean positive association.
	Lift float64 `json:"lift"`

	// Leverage is support(A ∪ C) - support(A) * support(C).
	Leverage float64 `json:"leverage"`
}

// Key identifies the rule by its (antecedent, consequent) pair.
func (r Rule) Key() string {
	return r.Antecedent.Key() + "=>" + r.Consequent.Key()
}

// Generate derives every rule with confidence >= minConfidence from the
// frequent itemsets. Each itemset of size >= 2 contributes one candidate
// rule per non-empty proper subset (the antecedent); the complement is the
// consequent.
//
// frequent must be downward closed, as Miner.Mine guarantees. Rules whose
// antecedent or consequent support is unknown are skipped, as are itemsets
// larger than MaxRuleItemsetSize (see OversizedItemsets). The result is
// sorted by antecedent and then consequent.
func Generate(frequent []FrequentItemset, minConfidence float64) []Rule {
	byKey := make(map[string]FrequentItemset, len(frequent))
	for _, fi := range frequent {
		byKey[fi.Items.Key()] = fi
	}

	rules := make(map[string]Rule)
	for _, fi := range frequent {
		size := len(fi.Items)
		if size < 2 || size > MaxRuleItemsetSize {
			continue
		}

		full := uint32(1)<<size - 1
		for mask := uint32(1); mask < full; mask++ {
			ante, cons := splitByMask(fi.Items, mask)

			anteFI, ok := byKey[ante.Key()]
			if !ok || anteFI.Count == 0 {
				continue
			}
			consFI, ok := byKey[cons.Key()]
			if !ok || consFI.Count == 0 {
				continue
			}

			confidence := float64(fi.Count) / float64(anteFI.Count)
			if confidence < minConfidence-supportEpsilon {
				continue
			}

			anteSupport := anteFI.Support
			consSupport := consFI.Support

			r := Rule{
				Antecedent:        ante,
				Consequent:        cons,
				Support:           fi.Support,
				AntecedentSupport: anteSupport,
				ConsequentSupport: consSupport,
				Confidence:        confidence,
				Lift:              confidence / consSupport,
				Leverage:          fi.Support - anteSupport*consSupport,
			}
			rules[r.Key()] = r
		}
	}

	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, r)
	}
	slices.SortFunc(out, compareRules)
	return out
}

func compareRules(a, b Rule) int {
	if c := a.Antecedent.Compare(b.Antecedent); c != 0 {
		return c
	}
	return a.Consequent.Compare(b.Consequent)
}

// splitByMask partitions a sorted itemset into the members selected by mask
// and the rest. Both halves stay sorted.
func splitByMask(items Itemset, mask uint32) (Itemset, Itemset) {
	in := make(Itemset, 0, len(items))
	out := make(Itemset, 0, len(items))
	for i, id := range items {
		if mask&(1<<i) != 0 {
			in = append(in, id)
		} else {
			out = append(out, id)
		}
	}
	return in, out
}

// RulesForAntecedent returns the rules whose antecedent equals items
// exactly, ordered by confidence descending and consequent ascending.
func RulesForAntecedent(rules []Rule, items Itemset) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Antecedent.Equal(items) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b Rule) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return a.Consequent.Compare(b.Consequent)
	})
	return out
}
