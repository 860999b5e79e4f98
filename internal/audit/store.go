// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in memory. Data is lost on restart.
type MemoryStore struct {
	entries []Entry
	mu      sync.RWMutex
	maxLen  int
}

// NewMemoryStore creates a store that keeps at most maxLen entries.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = 1000
	}
	return &MemoryStore{
		entries: make([]Entry, 0, min(maxLen, 64)),
		maxLen:  maxLen,
	}
}

// Save appends or replaces an entry.
func (s *MemoryStore) Save(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].RunID == entry.RunID {
			s.entries[i] = *entry
			return nil
		}
	}

	if len(s.entries) >= s.maxLen {
		// Remove oldest 10%
		removeCount := max(s.maxLen/10, 1)
		s.entries = s.entries[removeCount:]
	}
	s.entries = append(s.entries, *entry)
	return nil
}

// Query returns matching entries, most recently saved first.
func (s *MemoryStore) Query(_ context.Context, filter QueryFilter) ([]Entry, error) {
	filter = filter.normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Entry, 0)
	skipped := 0
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if !filter.matches(&e) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		results = append(results, e)
		if len(results) >= filter.Limit {
			break
		}
	}
	return results, nil
}

// Count returns the number of matching entries, ignoring limit and offset.
func (s *MemoryStore) Count(_ context.Context, filter QueryFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for i := range s.entries {
		if filter.matches(&s.entries[i]) {
			n++
		}
	}
	return n, nil
}

// Delete removes entries that finished before olderThan.
func (s *MemoryStore) Delete(_ context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	var removed int64
	for _, e := range s.entries {
		if e.FinishedAt.Before(olderThan) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}
