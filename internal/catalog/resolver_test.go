// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/basketry/internal/basket"
)

type fakeNames struct {
	mu    sync.Mutex
	names map[basket.ItemID]string
	err   error
	calls int
}

func (f *fakeNames) ProductName(_ context.Context, id basket.ItemID) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", false, f.err
	}
	name, ok := f.names[id]
	return name, ok, nil
}

func (f *fakeNames) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestResolver_Resolve(t *testing.T) {
	src := &fakeNames{names: map[basket.ItemID]string{1: "Bread", 2: "", 3: "Butter"}}
	r := NewResolver(src, 100)
	ctx := context.Background()

	tests := []struct {
		name string
		id   basket.ItemID
		want string
	}{
		{"known product", 1, "Bread"},
		{"empty title", 2, NotFoundName},
		{"unknown product", 99, NotFoundName},
		{"another known product", 3, "Butter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(ctx, tt.id); got != tt.want {
				t.Errorf("Resolve(%d) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestResolver_CachesLookups(t *testing.T) {
	src := &fakeNames{names: map[basket.ItemID]string{1: "Bread"}}
	r := NewResolver(src, 100)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		r.Resolve(ctx, 1)
		r.Resolve(ctx, 42)
	}
	if got := src.callCount(); got != 2 {
		t.Errorf("source called %d times, want 2 (one per product)", got)
	}

	r.Reset()
	src.names[1] = "Sourdough"
	if got := r.Resolve(ctx, 1); got != "Sourdough" {
		t.Errorf("Resolve after Reset = %q, want renamed product", got)
	}
}

func TestResolver_ErrorsDegradeToNotFound(t *testing.T) {
	src := &fakeNames{err: errors.New("mysql: connection refused")}
	r := NewResolver(src, 100)
	ctx := context.Background()

	if got := r.Resolve(ctx, 1); got != NotFoundName {
		t.Errorf("Resolve() = %q, want %q", got, NotFoundName)
	}

	// Failures are not cached.
	src.err = nil
	src.names = map[basket.ItemID]string{1: "Bread"}
	if got := r.Resolve(ctx, 1); got != "Bread" {
		t.Errorf("Resolve() after recovery = %q, want Bread", got)
	}
}

func TestResolver_CircuitOpens(t *testing.T) {
	src := &fakeNames{err: errors.New("timeout")}
	r := NewResolver(src, 100)
	ctx := context.Background()

	// Ten consecutive failures reach the minimum request count at 100% failure.
	for i := 1; i <= 10; i++ {
		r.Resolve(ctx, basket.ItemID(i))
	}
	if r.cb.State() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %s, want open", r.State())
	}

	calls := src.callCount()
	for i := 11; i <= 20; i++ {
		if got := r.Resolve(ctx, basket.ItemID(i)); got != NotFoundName {
			t.Errorf("Resolve(%d) with open breaker = %q", i, got)
		}
	}
	if src.callCount() != calls {
		t.Errorf("source called %d times while breaker open", src.callCount()-calls)
	}
}

func TestStateConversions(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
