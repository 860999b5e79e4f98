// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/metrics"
)

// RuleStore is the pairwise rule store rebuilt by every run.
// database.AssociationStore implements it.
type RuleStore interface {
	DropAndRecreate(ctx context.Context) error
	Upsert(ctx context.Context, e basket.Edge, nameIn, nameOut string) (basket.UpsertOutcome, error)
}

// RuleTable keeps the multi-item rules of the last run.
// database.DB implements it.
type RuleTable interface {
	ReplaceRules(ctx context.Context, rules []basket.Rule) error
}

// NameResolver maps product ids to display names. It never fails;
// unknown products resolve to a sentinel.
type NameResolver interface {
	Resolve(ctx context.Context, id basket.ItemID) string
	Reset()
}

// Config holds the tuning parameters of a run.
type Config struct {
	MinSupport     float64
	MinConfidence  float64
	Workers        int
	MaxItemsetSize int
}

// RunSummary describes one completed pipeline run.
type RunSummary struct {
	RunID            string        `json:"run_id"`
	Source           string        `json:"source,omitempty"`
	StartedAt        time.Time     `json:"started_at"`
	FinishedAt       time.Time     `json:"finished_at"`
	Duration         time.Duration `json:"duration_ns"`
	MinSupport       float64       `json:"min_support"`
	MinConfidence    float64       `json:"min_confidence"`
	Transactions     int           `json:"transactions"`
	Items            int           `json:"items"`
	FrequentItemsets int           `json:"frequent_itemsets"`
	Rules            int           `json:"rules"`
	Edges            int           `json:"edges"`
	Inserted         int           `json:"inserted"`
	Replaced         int           `json:"replaced"`
	Discarded        int           `json:"discarded"`
	Failed           int           `json:"failed"`
}

// Stored returns the number of edges left in the store after the run.
func (s RunSummary) Stored() int {
	return s.Inserted
}

// Pipeline runs extract, encode, mine, generate and store end to end.
type Pipeline struct {
	cfg    Config
	source basket.PairSource
	store  RuleStore
	rules  RuleTable
	names  NameResolver
	miner  *basket.Miner
	logger zerolog.Logger

	sourceName string
}

// NewPipeline wires a pipeline. rules may be nil when multi-item rules
// are not persisted.
func NewPipeline(cfg Config, source basket.PairSource, store RuleStore, rules RuleTable, names NameResolver) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		source: source,
		store:  store,
		rules:  rules,
		names:  names,
		miner:  basket.NewMiner(cfg.Workers, cfg.MaxItemsetSize),
		logger: logging.WithComponent("mining"),
	}
	if named, ok := source.(interface{ Source() string }); ok {
		p.sourceName = named.Source()
	}
	return p
}

// Run executes one full batch recompute.
//
// An empty input at any stage returns an error wrapping
// basket.ErrEmptyInput and leaves the stores untouched. A repository
// failure returns *basket.DataSourceError. Per-edge store failures are
// logged, counted in the summary and skipped.
func (p *Pipeline) Run(ctx context.Context) (summary RunSummary, err error) {
	summary = RunSummary{
		RunID:         logging.RunIDFromContext(ctx),
		Source:        p.sourceName,
		StartedAt:     time.Now(),
		MinSupport:    p.cfg.MinSupport,
		MinConfidence: p.cfg.MinConfidence,
	}
	log := p.logger.With().Str("run_id", summary.RunID).Logger()
	defer func() {
		summary.FinishedAt = time.Now()
		summary.Duration = summary.FinishedAt.Sub(summary.StartedAt)
	}()

	p.names.Reset()

	stage := time.Now()
	txs, err := basket.Extract(ctx, p.source)
	metrics.RecordMiningStage("extract", time.Since(stage))
	if err != nil {
		return summary, err
	}
	summary.Transactions = len(txs)
	if len(txs) == 0 {
		return summary, basket.ErrNoTransactions
	}

	stage = time.Now()
	enc := basket.Encode(txs)
	metrics.RecordMiningStage("encode", time.Since(stage))
	summary.Items = enc.NumItems()
	log.Info().
		Int("transactions", summary.Transactions).
		Int("items", summary.Items).
		Msg("Transactions extracted")

	stage = time.Now()
	frequent, err := p.miner.Mine(ctx, enc, p.cfg.MinSupport)
	metrics.RecordMiningStage("itemsets", time.Since(stage))
	if err != nil {
		return summary, fmt.Errorf("mine frequent itemsets: %w", err)
	}
	summary.FrequentItemsets = len(frequent)
	if len(frequent) == 0 {
		return summary, basket.ErrNoFrequentItemsets
	}
	if n, largest := basket.OversizedItemsets(frequent); n > 0 {
		log.Warn().
			Int("count", n).
			Int("largest_size", largest).
			Int("max_size", basket.MaxRuleItemsetSize).
			Msg("Frequent itemsets too large for rule generation were skipped")
	}

	stage = time.Now()
	rules := basket.Generate(frequent, p.cfg.MinConfidence)
	metrics.RecordMiningStage("rules", time.Since(stage))
	summary.Rules = len(rules)
	if len(rules) == 0 {
		return summary, basket.ErrNoRules
	}
	log.Info().
		Int("frequent_itemsets", summary.FrequentItemsets).
		Int("rules", summary.Rules).
		Msg("Association rules generated")

	stage = time.Now()
	err = p.store.DropAndRecreate(ctx)
	if err != nil {
		return summary, fmt.Errorf("reset rule store: %w", err)
	}
	p.storeEdges(ctx, log, basket.Explode(rules), &summary)

	if p.rules != nil {
		if err := p.rules.ReplaceRules(ctx, rules); err != nil {
			return summary, fmt.Errorf("persist multi-item rules: %w", err)
		}
	}
	metrics.RecordMiningStage("store", time.Since(stage))

	log.Info().
		Int("edges", summary.Edges).
		Int("inserted", summary.Inserted).
		Int("replaced", summary.Replaced).
		Int("discarded", summary.Discarded).
		Int("failed", summary.Failed).
		Msg("Rule store rebuilt")

	return summary, nil
}

// storeEdges upserts every edge in rule order. Inserted counts distinct
// pairs: a replacement swaps an existing row rather than adding one.
func (p *Pipeline) storeEdges(ctx context.Context, log zerolog.Logger, edges []basket.Edge, summary *RunSummary) {
	summary.Edges = len(edges)

	for _, e := range edges {
		nameIn := p.names.Resolve(ctx, e.In)
		nameOut := p.names.Resolve(ctx, e.Out)

		outcome, err := p.store.Upsert(ctx, e, nameIn, nameOut)
		if err != nil {
			summary.Failed++
			metrics.RecordEdgeUpsert("failed")

			var pe *basket.PersistenceError
			ev := log.Warn().Err(err).
				Int64("product_in", int64(e.In)).
				Int64("product_out", int64(e.Out)).
				Float64("confidence", e.Confidence)
			if errors.As(err, &pe) {
				ev = ev.Str("op", pe.Op)
			}
			ev.Msg("Skipping edge after store failure")
			continue
		}

		metrics.RecordEdgeUpsert(outcome.String())
		switch outcome {
		case basket.UpsertInserted:
			summary.Inserted++
		case basket.UpsertReplaced:
			summary.Replaced++
		case basket.UpsertDiscarded:
			summary.Discarded++
		}
	}
}
