// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package basket

import (
	"context"
	"encoding/binary"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	// supportEpsilon absorbs float rounding when comparing support fractions
	// against the threshold (e.g. 3/10 against 0.3).
	supportEpsilon = 1e-12

	// minRowsPerWorker keeps tiny inputs on the sequential path.
	minRowsPerWorker = 2048

	// ctxCheckEvery controls how often counting loops poll the context.
	ctxCheckEvery = 1024
)

// FrequentItemset is an itemset whose support met the mining threshold.
type FrequentItemset struct {
	Items   Itemset `json:"items"`
	Count   int     `json:"count"`
	Support float64 `json:"support"`
}

// Miner runs level-wise Apriori over an Encoding.
type Miner struct {
	// Workers is the number of goroutines used for per-level support
	// counting. 0 means runtime.NumCPU(); 1 forces the sequential path.
	Workers int

	// MaxLen caps the itemset size. 0 means unlimited.
	MaxLen int
}

// NewMiner creates a miner with the given worker count and size cap.
func NewMiner(workers, maxLen int) *Miner {
	return &Miner{Workers: workers, MaxLen: maxLen}
}

// Mine returns every itemset with support >= minSupport, ordered by size
// and then lexicographically by item id.
//
// An input with zero transactions fails with ErrNoTransactions. When no
// itemset meets the threshold the result is empty and the error nil.
func (m *Miner) Mine(ctx context.Context, enc *Encoding, minSupport float64) ([]FrequentItemset, error) {
	n := enc.NumTransactions()
	if n == 0 {
		return nil, ErrNoTransactions
	}
	if minSupport <= 0 || minSupport > 1 {
		return nil, fmt.Errorf("min support must be in (0, 1], got %f", minSupport)
	}

	var result []FrequentItemset

	level := m.frequentSingles(enc, minSupport, &result)
	for k := 1; len(level) > 0; k++ {
		if m.MaxLen > 0 && k >= m.MaxLen {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates := generateCandidates(level)
		if len(candidates) == 0 {
			break
		}

		counts, err := m.countSupport(ctx, enc, candidates)
		if err != nil {
			return nil, err
		}

		next := make([][]int32, 0, len(candidates))
		for i, cand := range candidates {
			if !meetsSupport(counts[i], n, minSupport) {
				continue
			}
			next = append(next, cand)
			result = append(result, FrequentItemset{
				Items:   enc.Decode(cand),
				Count:   counts[i],
				Support: float64(counts[i]) / float64(n),
			})
		}
		level = next
	}

	return result, nil
}

// frequentSingles counts 1-itemsets and appends the frequent ones to result.
func (m *Miner) frequentSingles(enc *Encoding, minSupport float64, result *[]FrequentItemset) [][]int32 {
	n := enc.NumTransactions()
	counts := make([]int, enc.NumItems())
	for i := 0; i < n; i++ {
		for _, col := range enc.Row(i) {
			counts[col]++
		}
	}

	level := make([][]int32, 0, len(counts))
	for col, c := range counts {
		if !meetsSupport(c, n, minSupport) {
			continue
		}
		cols := []int32{int32(col)}
		level = append(level, cols)
		*result = append(*result, FrequentItemset{
			Items:   enc.Decode(cols),
			Count:   c,
			Support: float64(c) / float64(n),
		})
	}
	return level
}

func meetsSupport(count, n int, minSupport float64) bool {
	return count > 0 && float64(count)/float64(n) >= minSupport-supportEpsilon
}

// generateCandidates joins frequent k-itemsets sharing their first k-1
// columns and prunes any (k+1)-candidate with an infrequent k-subset.
//
// level must be sorted lexicographically; the output is too.
func generateCandidates(level [][]int32) [][]int32 {
	if len(level) == 0 {
		return nil
	}
	k := len(level[0])

	frequent := make(map[string]struct{}, len(level))
	for _, cols := range level {
		frequent[packKey(cols)] = struct{}{}
	}

	var out [][]int32
	subset := make([]int32, k)
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			if !samePrefix(level[i], level[j], k-1) {
				break
			}
			cand := make([]int32, k+1)
			copy(cand, level[i])
			cand[k] = level[j][k-1]

			if hasInfrequentSubset(cand, subset, frequent) {
				continue
			}
			out = append(out, cand)
		}
	}
	return out
}

func samePrefix(a, b []int32, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// hasInfrequentSubset checks the k-subsets of a (k+1)-candidate. The two
// subsets dropping either of the last two columns are the join parents and
// are skipped.
func hasInfrequentSubset(cand, buf []int32, frequent map[string]struct{}) bool {
	k := len(cand) - 1
	for drop := 0; drop < k-1; drop++ {
		buf = buf[:0]
		buf = append(buf, cand[:drop]...)
		buf = append(buf, cand[drop+1:]...)
		if _, ok := frequent[packKey(buf)]; !ok {
			return true
		}
	}
	return false
}

// countSupport counts how many rows contain each candidate, fanning out over
// row ranges when the input is large enough. Partial counts are summed, so
// the result does not depend on scheduling.
func (m *Miner) countSupport(ctx context.Context, enc *Encoding, candidates [][]int32) ([]int, error) {
	n := enc.NumTransactions()
	workers := m.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if maxWorkers := n / minRowsPerWorker; workers > maxWorkers {
		workers = maxWorkers
	}
	if workers <= 1 {
		return countRange(ctx, enc, candidates, 0, n)
	}

	chunk := (n + workers - 1) / workers
	partials := make([][]int, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			counts, err := countRange(gctx, enc, candidates, lo, hi)
			partials[w] = counts
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := make([]int, len(candidates))
	for _, part := range partials {
		for i, c := range part {
			total[i] += c
		}
	}
	return total, nil
}

// countRange counts candidate occurrences in rows [lo, hi).
//
// For short rows it enumerates the row's k-combinations and looks them up;
// for long rows it tests each candidate for containment. Both give the same
// counts.
func countRange(ctx context.Context, enc *Encoding, candidates [][]int32, lo, hi int) ([]int, error) {
	counts := make([]int, len(candidates))
	k := len(candidates[0])

	index := make(map[string]int, len(candidates))
	for i, cand := range candidates {
		index[packKey(cand)] = i
	}

	combo := make([]int32, k)
	keyBuf := make([]byte, 0, 4*k)

	for r := lo; r < hi; r++ {
		if (r-lo)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row := enc.Row(r)
		if len(row) < k {
			continue
		}

		if binomialAtMost(len(row), k, len(candidates)) {
			forEachCombination(row, combo, func(c []int32) {
				keyBuf = appendKey(keyBuf[:0], c)
				if i, ok := index[string(keyBuf)]; ok {
					counts[i]++
				}
			})
			continue
		}

		for i, cand := range candidates {
			if containsAll(row, cand) {
				counts[i]++
			}
		}
	}
	return counts, nil
}

// containsAll reports whether sorted row contains every column of sorted cand.
func containsAll(row, cand []int32) bool {
	i := 0
	for _, c := range cand {
		for i < len(row) && row[i] < c {
			i++
		}
		if i == len(row) || row[i] != c {
			return false
		}
		i++
	}
	return true
}

// binomialAtMost reports whether C(n, k) <= limit without overflowing.
func binomialAtMost(n, k, limit int) bool {
	if k > n-k {
		k = n - k
	}
	v := 1
	for i := 1; i <= k; i++ {
		v = v * (n - k + i) / i
		if v > limit {
			return false
		}
	}
	return v <= limit
}

// forEachCombination calls fn with every k-combination of row in
// lexicographic order, k = len(buf). buf is reused between calls.
func forEachCombination(row, buf []int32, fn func([]int32)) {
	k := len(buf)
	n := len(row)
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		for i, j := range idx {
			buf[i] = row[j]
		}
		fn(buf)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func packKey(cols []int32) string {
	return string(appendKey(make([]byte, 0, 4*len(cols)), cols))
}

func appendKey(dst []byte, cols []int32) []byte {
	for _, c := range cols {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(c))
	}
	return dst
}
