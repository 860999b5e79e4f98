// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/cache"
	"github.com/tomtom215/basketry/internal/database"
	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/metrics"
)

// ErrInvalidQuery is returned for an empty or malformed antecedent.
var ErrInvalidQuery = errors.New("invalid recommendation query")

// EdgeQuerier reads the pairwise rule store.
// database.AssociationStore implements it.
type EdgeQuerier interface {
	QueryByIn(ctx context.Context, productIn basket.ItemID, limit int) ([]database.StoredEdge, error)
}

// RuleQuerier reads the multi-item rules table. RulesByAntecedent returns
// only rules whose antecedent equals items, ranked by confidence.
// database.DB implements it.
type RuleQuerier interface {
	RulesByAntecedent(ctx context.Context, items basket.Itemset) ([]basket.Rule, error)
}

// Recommendation is one recommended product. Confidence is on the 0-1
// scale; Name is only known for single-item queries.
type Recommendation struct {
	ProductID  basket.ItemID `json:"product_id"`
	Name       string        `json:"post_title,omitempty"`
	Confidence float64       `json:"confidence"`
	Lift       float64       `json:"lift,omitempty"`
}

// Config bounds query sizes and the result cache.
type Config struct {
	DefaultK  int
	MaxK      int
	CacheSize int
	CacheTTL  time.Duration
}

// Service answers "customers also bought" queries.
type Service struct {
	edges  EdgeQuerier
	rules  RuleQuerier
	cfg    Config
	cache  *cache.LRU[string, []Recommendation]
	logger zerolog.Logger
}

// NewService creates a query service. rules may be nil, in which case
// multi-item queries always return no results.
func NewService(cfg Config, edges EdgeQuerier, rules RuleQuerier) *Service {
	if cfg.DefaultK <= 0 {
		cfg.DefaultK = 6
	}
	if cfg.MaxK < cfg.DefaultK {
		cfg.MaxK = cfg.DefaultK
	}
	return &Service{
		edges:  edges,
		rules:  rules,
		cfg:    cfg,
		cache:  cache.NewLRU[string, []Recommendation](cfg.CacheSize, cfg.CacheTTL),
		logger: logging.WithComponent("recommend"),
	}
}

// Recommend returns at most k products for the antecedent items, by
// confidence descending and product id ascending.
//
// A single item is answered from the pairwise store. Several items are
// answered from rules whose antecedent is exactly that set; subsets and
// supersets never match. k <= 0 selects the default and k is capped at
// the configured maximum. No match yields an empty slice.
func (s *Service) Recommend(ctx context.Context, items []basket.ItemID, k int) ([]Recommendation, error) {
	set := basket.NewItemset(items...)
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidQuery)
	}
	for _, id := range set {
		if !id.Valid() {
			return nil, fmt.Errorf("%w: product id %d", ErrInvalidQuery, id)
		}
	}
	k = s.clampK(k)

	kind := "single"
	if len(set) > 1 {
		kind = "multi"
	}

	key := set.Key() + "|" + strconv.Itoa(k)
	if recs, ok := s.cache.Get(key); ok {
		metrics.RecordCacheLookup("recommendations", true)
		metrics.RecommendationQueries.WithLabelValues(kind, resultLabel(recs)).Inc()
		return slices.Clone(recs), nil
	}
	metrics.RecordCacheLookup("recommendations", false)

	var recs []Recommendation
	var err error
	if len(set) == 1 {
		recs, err = s.single(ctx, set[0], k)
	} else {
		recs, err = s.multi(ctx, set, k)
	}
	if err != nil {
		metrics.RecommendationQueries.WithLabelValues(kind, "error").Inc()
		return nil, err
	}

	s.cache.Set(key, recs)
	metrics.CacheSize.WithLabelValues("recommendations").Set(float64(s.cache.Len()))
	metrics.RecommendationQueries.WithLabelValues(kind, resultLabel(recs)).Inc()
	return slices.Clone(recs), nil
}

func (s *Service) single(ctx context.Context, id basket.ItemID, k int) ([]Recommendation, error) {
	edges, err := s.edges.QueryByIn(ctx, id, k)
	if err != nil {
		return nil, err
	}
	recs := make([]Recommendation, 0, len(edges))
	for _, e := range edges {
		recs = append(recs, Recommendation{ProductID: e.Out, Name: e.NameOut, Confidence: e.Confidence})
	}
	return recs, nil
}

// multi flattens the consequents of the exactly matching rules returned by
// the rule table. A product reached through several rules keeps its highest
// confidence.
func (s *Service) multi(ctx context.Context, set basket.Itemset, k int) ([]Recommendation, error) {
	if s.rules == nil {
		return []Recommendation{}, nil
	}
	rules, err := s.rules.RulesByAntecedent(ctx, set)
	if err != nil {
		return nil, err
	}
	return rankConsequents(rules, k), nil
}

// rankConsequents turns rules into per-product recommendations.
func rankConsequents(rules []basket.Rule, k int) []Recommendation {
	best := make(map[basket.ItemID]Recommendation)
	for _, r := range rules {
		for _, out := range r.Consequent {
			cur, ok := best[out]
			if ok && cur.Confidence >= r.Confidence {
				continue
			}
			best[out] = Recommendation{ProductID: out, Confidence: r.Confidence, Lift: r.Lift}
		}
	}

	recs := make([]Recommendation, 0, len(best))
	for _, rec := range best {
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b Recommendation) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		case a.ProductID < b.ProductID:
			return -1
		case a.ProductID > b.ProductID:
			return 1
		}
		return 0
	})
	if len(recs) > k {
		recs = recs[:k]
	}
	return recs
}

// ProductAssociation is one row of the per-product association listing,
// with confidence on the 0-100 scale used by the rule store.
type ProductAssociation struct {
	ProductID  basket.ItemID `json:"product_id"`
	PostTitle  string        `json:"post_title"`
	Confidence float64       `json:"confidence"`
}

// Associations lists the stored edges leaving productID. limit <= 0
// returns every edge.
func (s *Service) Associations(ctx context.Context, productID basket.ItemID, limit int) ([]ProductAssociation, error) {
	if !productID.Valid() {
		return nil, fmt.Errorf("%w: product id %d", ErrInvalidQuery, productID)
	}
	if limit > s.cfg.MaxK {
		limit = s.cfg.MaxK
	}
	edges, err := s.edges.QueryByIn(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ProductAssociation, 0, len(edges))
	for _, e := range edges {
		out = append(out, ProductAssociation{
			ProductID:  e.Out,
			PostTitle:  e.NameOut,
			Confidence: e.Confidence * 100,
		})
	}
	return out, nil
}

// Invalidate drops every cached result. Called when a run rebuilds the store.
func (s *Service) Invalidate() {
	s.cache.Purge()
	metrics.CacheSize.WithLabelValues("recommendations").Set(0)
	s.logger.Debug().Msg("Recommendation cache invalidated")
}

// Limits returns the effective default and maximum k.
func (s *Service) Limits() (defaultK, maxK int) {
	return s.cfg.DefaultK, s.cfg.MaxK
}

func (s *Service) clampK(k int) int {
	if k <= 0 {
		return s.cfg.DefaultK
	}
	if k > s.cfg.MaxK {
		return s.cfg.MaxK
	}
	return k
}

func resultLabel(recs []Recommendation) string {
	if len(recs) == 0 {
		return "empty"
	}
	return "hit"
}
