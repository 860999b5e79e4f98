// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/database"
)

type fakeEdges struct {
	edges map[basket.ItemID][]database.StoredEdge
	calls int
	err   error
}

func (f *fakeEdges) QueryByIn(_ context.Context, in basket.ItemID, limit int) ([]database.StoredEdge, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := append([]database.StoredEdge{}, f.edges[in]...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeRules struct {
	rules []basket.Rule
	err   error
}

func (f *fakeRules) RulesByAntecedent(_ context.Context, items basket.Itemset) ([]basket.Rule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return basket.RulesForAntecedent(f.rules, items), nil
}

func newTestService(edges *fakeEdges, rules RuleQuerier) *Service {
	return NewService(Config{DefaultK: 2, MaxK: 3, CacheSize: 10, CacheTTL: time.Minute}, edges, rules)
}

func scenarioEdges() *fakeEdges {
	return &fakeEdges{edges: map[basket.ItemID][]database.StoredEdge{
		1: {
			{In: 1, NameIn: "Bread", Out: 4, NameOut: "Jam", Confidence: 0.9},
			{In: 1, NameIn: "Bread", Out: 3, NameOut: "Milk", Confidence: 0.8},
			{In: 1, NameIn: "Bread", Out: 9, NameOut: "Not Found", Confidence: 0.8},
			{In: 1, NameIn: "Bread", Out: 2, NameOut: "Butter", Confidence: 0.5},
		},
	}}
}

func rule(ante, cons []basket.ItemID, conf float64) basket.Rule {
	return basket.Rule{
		Antecedent: basket.NewItemset(ante...),
		Consequent: basket.NewItemset(cons...),
		Confidence: conf,
	}
}

func TestRecommend_SingleItem(t *testing.T) {
	svc := newTestService(scenarioEdges(), nil)

	tests := []struct {
		name  string
		k     int
		want  []basket.ItemID
		names []string
	}{
		{"default k", 0, []basket.ItemID{4, 3}, []string{"Jam", "Milk"}},
		{"explicit k", 1, []basket.ItemID{4}, []string{"Jam"}},
		{"k clamped to max", 50, []basket.ItemID{4, 3, 9}, []string{"Jam", "Milk", "Not Found"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := svc.Recommend(context.Background(), []basket.ItemID{1}, tt.k)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(recs) != len(tt.want) {
				t.Fatalf("Recommend() = %+v, want %v", recs, tt.want)
			}
			for i := range recs {
				if recs[i].ProductID != tt.want[i] || recs[i].Name != tt.names[i] {
					t.Errorf("recs[%d] = %+v, want %d %q", i, recs[i], tt.want[i], tt.names[i])
				}
			}
		})
	}
}

func TestRecommend_NoMatch(t *testing.T) {
	svc := newTestService(scenarioEdges(), &fakeRules{})
	for _, items := range [][]basket.ItemID{{42}, {1, 2}} {
		recs, err := svc.Recommend(context.Background(), items, 0)
		if err != nil {
			t.Fatalf("Recommend(%v) error = %v", items, err)
		}
		if recs == nil || len(recs) != 0 {
			t.Errorf("Recommend(%v) = %#v, want empty non-nil slice", items, recs)
		}
	}
}

func TestRecommend_InvalidItems(t *testing.T) {
	svc := newTestService(scenarioEdges(), nil)
	for _, items := range [][]basket.ItemID{nil, {0}, {1, -3}} {
		if _, err := svc.Recommend(context.Background(), items, 0); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("Recommend(%v) error = %v, want ErrInvalidQuery", items, err)
		}
	}
}

func TestRecommend_MultiItemExactMatch(t *testing.T) {
	rules := &fakeRules{rules: []basket.Rule{
		rule([]basket.ItemID{1, 2}, []basket.ItemID{3}, 0.6),
		rule([]basket.ItemID{1, 2}, []basket.ItemID{3, 5}, 0.7),
		rule([]basket.ItemID{1, 2}, []basket.ItemID{4}, 0.7),
		rule([]basket.ItemID{1}, []basket.ItemID{8}, 0.99),
		rule([]basket.ItemID{1, 2, 3}, []basket.ItemID{9}, 0.99),
	}}
	svc := NewService(Config{DefaultK: 6, MaxK: 10}, scenarioEdges(), rules)

	// Order of the request does not matter.
	recs, err := svc.Recommend(context.Background(), []basket.ItemID{2, 1}, 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	want := []struct {
		id   basket.ItemID
		conf float64
	}{{3, 0.7}, {4, 0.7}, {5, 0.7}}
	if len(recs) != len(want) {
		t.Fatalf("Recommend() = %+v, want %v", recs, want)
	}
	for i, w := range want {
		if recs[i].ProductID != w.id || recs[i].Confidence != w.conf {
			t.Errorf("recs[%d] = %+v, want %d@%v", i, recs[i], w.id, w.conf)
		}
		if recs[i].Name != "" {
			t.Errorf("recs[%d].Name = %q, want empty for multi-item", i, recs[i].Name)
		}
	}
}

func TestRecommend_CacheAndInvalidate(t *testing.T) {
	edges := scenarioEdges()
	svc := newTestService(edges, nil)
	ctx := context.Background()

	first, _ := svc.Recommend(ctx, []basket.ItemID{1}, 2)
	first[0].Name = "mutated"
	second, _ := svc.Recommend(ctx, []basket.ItemID{1}, 2)
	if edges.calls != 1 {
		t.Errorf("store queried %d times, want 1", edges.calls)
	}
	if second[0].Name != "Jam" {
		t.Errorf("cached result was mutated through a returned slice: %+v", second[0])
	}

	svc.Invalidate()
	_, _ = svc.Recommend(ctx, []basket.ItemID{1}, 2)
	if edges.calls != 2 {
		t.Errorf("store queried %d times after Invalidate, want 2", edges.calls)
	}
}

func TestRecommend_StoreError(t *testing.T) {
	boom := errors.New("database closed")
	svc := newTestService(&fakeEdges{err: boom}, &fakeRules{err: boom})
	if _, err := svc.Recommend(context.Background(), []basket.ItemID{1}, 0); !errors.Is(err, boom) {
		t.Errorf("single error = %v", err)
	}
	if _, err := svc.Recommend(context.Background(), []basket.ItemID{1, 2}, 0); !errors.Is(err, boom) {
		t.Errorf("multi error = %v", err)
	}
}

func TestAssociations(t *testing.T) {
	svc := newTestService(scenarioEdges(), nil)
	rows, err := svc.Associations(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("Associations() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Associations() returned %d rows, want 4", len(rows))
	}
	if rows[0].ProductID != 4 || rows[0].PostTitle != "Jam" || rows[0].Confidence != 90 {
		t.Errorf("rows[0] = %+v", rows[0])
	}

	limited, _ := svc.Associations(context.Background(), 1, 2)
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d rows", len(limited))
	}
	if _, err := svc.Associations(context.Background(), 0, 0); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("Associations(0) error = %v", err)
	}
}

func TestRankConsequents_Ties(t *testing.T) {
	recs := rankConsequents([]basket.Rule{
		rule([]basket.ItemID{1}, []basket.ItemID{7}, 0.5),
		rule([]basket.ItemID{1}, []basket.ItemID{2}, 0.5),
		rule([]basket.ItemID{1}, []basket.ItemID{5}, 0.5),
	}, 2)
	if len(recs) != 2 || recs[0].ProductID != 2 || recs[1].ProductID != 5 {
		t.Errorf("rankConsequents() = %+v, want 2 then 5", recs)
	}
}
