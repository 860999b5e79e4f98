// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU[string, int](3, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, found := c.Get(key)
		if !found || got != want {
			t.Errorf("Get(%q) = %d, %v; want %d, true", key, got, found, want)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[int, string](3, 0)

	c.Set(1, "a")
	c.Set(2, "b")
	c.Set(3, "c")

	// Touch 1 so 2 becomes least recently used.
	c.Get(1)
	c.Set(4, "d")

	if _, found := c.Get(2); found {
		t.Error("Expected 2 to be evicted")
	}
	for _, k := range []int{1, 3, 4} {
		if _, found := c.Get(k); !found {
			t.Errorf("Expected %d to be present", k)
		}
	}
	if s := c.Stats(); s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	c := NewLRU[string, int](10, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	if _, found := c.Get("a"); !found {
		t.Fatal("Expected to find key 'a' immediately")
	}

	now = now.Add(2 * time.Minute)
	if _, found := c.Get("a"); found {
		t.Error("Expected key 'a' to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expired read, want 0", c.Len())
	}
}

func TestLRU_NoTTLNeverExpires(t *testing.T) {
	c := NewLRU[string, int](10, 0)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(1000 * time.Hour)
	if _, found := c.Get("a"); !found {
		t.Error("entry expired with ttl disabled")
	}
	if n := c.CleanupExpired(); n != 0 {
		t.Errorf("CleanupExpired() = %d, want 0", n)
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	c := NewLRU[string, int](10, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("old1", 1)
	c.Set("old2", 2)
	now = now.Add(30 * time.Second)
	c.Set("fresh", 3)
	now = now.Add(45 * time.Second)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if _, found := c.Get("fresh"); !found {
		t.Error("fresh entry removed by cleanup")
	}
}

func TestLRU_RemoveAndPurge(t *testing.T) {
	c := NewLRU[string, int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Remove("a") {
		t.Error("Remove() = false for existing key")
	}
	if c.Remove("a") {
		t.Error("Remove() = true for missing key")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Purge, want 0", c.Len())
	}
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Error("cache unusable after Purge")
	}
}

func TestLRU_UpdateExisting(t *testing.T) {
	c := NewLRU[string, int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)
	c.Set("c", 3)

	if v, ok := c.Get("a"); !ok || v != 10 {
		t.Errorf("Get(a) = %d, %v; want updated value 10", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Expected b to be evicted after a was refreshed")
	}
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRU[string, int](10, 0)
	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Size != 1 {
		t.Errorf("Stats() = %+v", s)
	}
	if rate := s.HitRate(); rate < 66.6 || rate > 66.7 {
		t.Errorf("HitRate() = %v, want ~66.67", rate)
	}
	if (Stats{}).HitRate() != 0 {
		t.Error("HitRate() of empty stats should be 0")
	}
}

func TestLRU_DefaultCapacity(t *testing.T) {
	c := NewLRU[int, int](0, 0)
	if c.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", c.capacity, DefaultCapacity)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[string, int](100, time.Minute)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g*i)%150)
				c.Set(key, i)
				c.Get(key)
				if i%50 == 0 {
					c.CleanupExpired()
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func BenchmarkLRU_Set(b *testing.B) {
	c := NewLRU[int, int](10000, time.Minute)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(i%20000, i)
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	c := NewLRU[int, int](10000, time.Minute)
	for i := 0; i < 10000; i++ {
		c.Set(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(i % 10000)
	}
}
