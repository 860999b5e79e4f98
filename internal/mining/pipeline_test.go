// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/tomtom215/basketry/internal/basket"
)

// memStore is a RuleStore over basket.EdgeSet.
type memStore struct {
	mu      sync.Mutex
	edges   *basket.EdgeSet
	names   map[basket.EdgeKey][2]string
	resets  int
	failOn  map[basket.EdgeKey]bool
	dropErr error
}

func newMemStore() *memStore {
	return &memStore{edges: basket.NewEdgeSet(), names: map[basket.EdgeKey][2]string{}}
}

func (m *memStore) DropAndRecreate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dropErr != nil {
		return m.dropErr
	}
	m.resets++
	m.edges = basket.NewEdgeSet()
	m.names = map[basket.EdgeKey][2]string{}
	return nil
}

func (m *memStore) Upsert(_ context.Context, e basket.Edge, nameIn, nameOut string) (basket.UpsertOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn[e.Key()] {
		return basket.UpsertInserted, &basket.PersistenceError{Op: "insert", In: e.In, Out: e.Out, Err: errors.New("disk full")}
	}
	outcome := m.edges.Upsert(e)
	if outcome != basket.UpsertDiscarded {
		m.names[e.Key()] = [2]string{nameIn, nameOut}
	}
	return outcome, nil
}

type memRules struct {
	rules []basket.Rule
	calls int
}

func (m *memRules) ReplaceRules(_ context.Context, rules []basket.Rule) error {
	m.calls++
	m.rules = rules
	return nil
}

type mapNames struct {
	names  map[basket.ItemID]string
	resets int
}

func (m *mapNames) Resolve(_ context.Context, id basket.ItemID) string {
	if n, ok := m.names[id]; ok {
		return n
	}
	return "Not Found"
}

func (m *mapNames) Reset() { m.resets++ }

type failingSource struct{ err error }

func (f failingSource) OrderItems(context.Context, func(int64, basket.ItemID) error) error {
	return f.err
}

func scenarioSource() basket.SliceSource {
	// Orders {1,2}, {1,2}, {1,3}, {2,3}.
	return basket.SliceSource{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 1}, {3, 3},
		{4, 2}, {4, 3},
	}
}

func TestPipeline_Run(t *testing.T) {
	store := newMemStore()
	rules := &memRules{}
	names := &mapNames{names: map[basket.ItemID]string{1: "Bread", 2: "Butter"}}

	p := NewPipeline(Config{MinSupport: 0.5, MinConfidence: 0.5, Workers: 2}, scenarioSource(), store, rules, names)
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Transactions != 4 || summary.Items != 3 {
		t.Errorf("summary transactions/items = %d/%d, want 4/3", summary.Transactions, summary.Items)
	}
	if summary.Rules != 2 || summary.Edges != 2 || summary.Inserted != 2 {
		t.Errorf("summary = %+v, want 2 rules, 2 edges, 2 inserted", summary)
	}
	if names.resets != 1 {
		t.Errorf("name cache reset %d times, want 1", names.resets)
	}
	if rules.calls != 1 || len(rules.rules) != 2 {
		t.Errorf("ReplaceRules called %d times with %d rules", rules.calls, len(rules.rules))
	}

	// confidence = supp({1,2}) / supp({1}) = 0.5 / 0.75 in both directions
	c12, ok := store.edges.Get(1, 2)
	if !ok || math.Abs(c12-2.0/3) > 1e-12 {
		t.Errorf("edge 1->2 = %v, %v; want 2/3", c12, ok)
	}
	c21, ok := store.edges.Get(2, 1)
	if !ok || math.Abs(c21-2.0/3) > 1e-12 {
		t.Errorf("edge 2->1 = %v, %v; want 2/3", c21, ok)
	}
	if got := store.names[basket.EdgeKey{In: 1, Out: 2}]; got != [2]string{"Bread", "Butter"} {
		t.Errorf("names for 1->2 = %v", got)
	}
	if summary.FinishedAt.IsZero() || summary.FinishedAt.Before(summary.StartedAt) {
		t.Errorf("FinishedAt = %v, StartedAt = %v", summary.FinishedAt, summary.StartedAt)
	}
	if summary.Duration != summary.FinishedAt.Sub(summary.StartedAt) {
		t.Errorf("Duration = %v, want FinishedAt - StartedAt", summary.Duration)
	}
}

func TestPipeline_MaxConfidencePerPair(t *testing.T) {
	// {1,2,3} in every order plus {1,2} twice: edge 1->2 is produced by
	// several rules with different confidences.
	src := basket.SliceSource{
		{1, 1}, {1, 2}, {1, 3},
		{2, 1}, {2, 2}, {2, 3},
		{3, 1}, {3, 2},
		{4, 1}, {4, 2},
		{5, 3},
	}
	store := newMemStore()
	p := NewPipeline(Config{MinSupport: 0.2, MinConfidence: 0.1}, src, store, nil, &mapNames{})

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Discarded+summary.Replaced == 0 {
		t.Error("expected overlapping edges to be replaced or discarded")
	}
	if summary.Inserted != store.edges.Len() {
		t.Errorf("Inserted = %d, store holds %d edges", summary.Inserted, store.edges.Len())
	}

	// Max over the rules containing 1 in the antecedent and 2 in the
	// consequent: {1}=>{2} = 4/4, {1,3}=>{2} = 2/2, ...
	c, _ := store.edges.Get(1, 2)
	if math.Abs(c-1.0) > 1e-12 {
		t.Errorf("edge 1->2 confidence = %v, want 1.0", c)
	}
}

func TestPipeline_EmptyInput(t *testing.T) {
	tests := []struct {
		name    string
		src     basket.PairSource
		cfg     Config
		wantErr error
	}{
		{
			name:    "no orders",
			src:     basket.SliceSource{},
			cfg:     Config{MinSupport: 0.5, MinConfidence: 0.5},
			wantErr: basket.ErrNoTransactions,
		},
		{
			name:    "only invalid products",
			src:     basket.SliceSource{{1, 0}, {2, -5}},
			cfg:     Config{MinSupport: 0.5, MinConfidence: 0.5},
			wantErr: basket.ErrNoTransactions,
		},
		{
			name:    "support too high",
			src:     basket.SliceSource{{1, 1}, {2, 2}, {3, 3}},
			cfg:     Config{MinSupport: 0.9, MinConfidence: 0.5},
			wantErr: basket.ErrNoFrequentItemsets,
		},
		{
			name:    "single-item orders produce no rules",
			src:     basket.SliceSource{{1, 1}, {2, 1}},
			cfg:     Config{MinSupport: 0.5, MinConfidence: 0.5},
			wantErr: basket.ErrNoRules,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			p := NewPipeline(tt.cfg, tt.src, store, nil, &mapNames{})

			summary, err := p.Run(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if summary.FinishedAt.IsZero() {
				t.Error("FinishedAt not set on an early exit")
			}
			if !errors.Is(err, basket.ErrEmptyInput) {
				t.Errorf("error %v does not wrap ErrEmptyInput", err)
			}
			if store.resets != 0 {
				t.Error("store was reset on an empty run")
			}
		})
	}
}

func TestPipeline_DataSourceError(t *testing.T) {
	store := newMemStore()
	p := NewPipeline(Config{MinSupport: 0.5, MinConfidence: 0.5},
		failingSource{err: errors.New("connection refused")}, store, nil, &mapNames{})

	_, err := p.Run(context.Background())
	var dse *basket.DataSourceError
	if !errors.As(err, &dse) {
		t.Fatalf("Run() error = %v, want *basket.DataSourceError", err)
	}
	if store.resets != 0 {
		t.Error("store was reset after a data source failure")
	}
}

func TestPipeline_PersistenceErrorSkipsEdge(t *testing.T) {
	store := newMemStore()
	store.failOn = map[basket.EdgeKey]bool{{In: 1, Out: 2}: true}
	p := NewPipeline(Config{MinSupport: 0.5, MinConfidence: 0.5}, scenarioSource(), store, nil, &mapNames{})

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, want per-edge failures to be skipped", err)
	}
	if summary.Failed != 1 || summary.Inserted != 1 {
		t.Errorf("summary failed/inserted = %d/%d, want 1/1", summary.Failed, summary.Inserted)
	}
	if _, ok := store.edges.Get(2, 1); !ok {
		t.Error("edge after the failed one was not stored")
	}
}

func TestPipeline_StoreResetError(t *testing.T) {
	store := newMemStore()
	store.dropErr = errors.New("read-only database")
	p := NewPipeline(Config{MinSupport: 0.5, MinConfidence: 0.5}, scenarioSource(), store, nil, &mapNames{})

	if _, err := p.Run(context.Background()); err == nil || errors.Is(err, basket.ErrEmptyInput) {
		t.Errorf("Run() error = %v, want a hard failure", err)
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	store := newMemStore()
	p := NewPipeline(Config{MinSupport: 0.25, MinConfidence: 0.1}, scenarioSource(), store, nil, &mapNames{})

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	first := store.edges.Edges()
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	second := store.edges.Edges()

	if len(first) != len(second) {
		t.Fatalf("edge count changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("edge %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPipeline_SourceName(t *testing.T) {
	p := NewPipeline(Config{MinSupport: 0.5}, namedSource{}, newMemStore(), nil, &mapNames{})
	if p.sourceName != "fixture" {
		t.Errorf("sourceName = %q, want fixture", p.sourceName)
	}
}

type namedSource struct{ basket.SliceSource }

func (namedSource) Source() string { return "fixture" }
