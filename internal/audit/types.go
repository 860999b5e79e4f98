// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package audit

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/basketry/internal/mining"
)

// Outcome is how a mining run ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeEmpty   Outcome = "empty"
	OutcomeFailure Outcome = "failure"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomeEmpty, OutcomeFailure:
		return true
	}
	return false
}

// Entry is one finished mining run.
type Entry struct {
	// RunID is the coordinator's run identifier.
	RunID string `json:"run_id"`

	// Trigger names what started the run (api, startup, schedule).
	Trigger string `json:"trigger"`

	Outcome Outcome `json:"outcome"`

	// Message is the status message published for the run.
	Message string `json:"message"`

	// Error is set for failed runs only.
	Error string `json:"error,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`

	Transactions     int `json:"transactions"`
	FrequentItemsets int `json:"frequent_itemsets"`
	Rules            int `json:"rules"`
	EdgesStored      int `json:"edges_stored"`

	// Summary is the full run summary as JSON.
	Summary json.RawMessage `json:"summary,omitempty"`
}

// EntryFromEvent converts a terminal run event. Started events and events
// without a run id return false.
func EntryFromEvent(ev mining.Event) (Entry, bool) {
	var outcome Outcome
	switch ev.Type {
	case mining.EventCompleted:
		outcome = OutcomeSuccess
	case mining.EventEmpty:
		outcome = OutcomeEmpty
	case mining.EventFailed:
		outcome = OutcomeFailure
	default:
		return Entry{}, false
	}
	if ev.RunID == "" {
		return Entry{}, false
	}

	e := Entry{
		RunID:      ev.RunID,
		Trigger:    ev.Trigger,
		Outcome:    outcome,
		Message:    ev.Message,
		Error:      ev.Error,
		FinishedAt: ev.Timestamp,
		StartedAt:  ev.Timestamp,
	}
	if s := ev.Summary; s != nil {
		if !s.StartedAt.IsZero() {
			e.StartedAt = s.StartedAt
		}
		if !s.FinishedAt.IsZero() {
			e.FinishedAt = s.FinishedAt
		}
		e.Transactions = s.Transactions
		e.FrequentItemsets = s.FrequentItemsets
		e.Rules = s.Rules
		e.EdgesStored = s.Stored()
		if data, err := json.Marshal(s); err == nil {
			e.Summary = data
		}
	}
	e.DurationMS = e.FinishedAt.Sub(e.StartedAt).Milliseconds()
	return e, true
}

// Store persists run history.
type Store interface {
	// Save persists an entry. Saving a run id twice replaces the entry.
	Save(ctx context.Context, entry *Entry) error

	// Query returns entries matching the filter, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Entry, error)

	// Count returns the number of entries matching the filter.
	Count(ctx context.Context, filter QueryFilter) (int64, error)

	// Delete removes entries that finished before olderThan.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter narrows history queries.
type QueryFilter struct {
	// Outcomes filters by outcome; empty means all.
	Outcomes []Outcome `json:"outcomes,omitempty"`

	// Trigger filters by trigger name.
	Trigger string `json:"trigger,omitempty"`

	// Since keeps entries that finished at or after this time.
	Since *time.Time `json:"since,omitempty"`

	// Limit is the maximum number of results; 0 means DefaultQueryLimit.
	Limit int `json:"limit,omitempty"`

	// Offset for pagination.
	Offset int `json:"offset,omitempty"`
}

// Query limits.
const (
	DefaultQueryLimit = 20
	MaxQueryLimit     = 500
)

// DefaultQueryFilter returns the last DefaultQueryLimit runs.
func DefaultQueryFilter() QueryFilter {
	return QueryFilter{Limit: DefaultQueryLimit}
}

// normalize applies the default and maximum limit.
func (f QueryFilter) normalize() QueryFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultQueryLimit
	}
	if f.Limit > MaxQueryLimit {
		f.Limit = MaxQueryLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func (f QueryFilter) matches(e *Entry) bool {
	if len(f.Outcomes) > 0 {
		found := false
		for _, o := range f.Outcomes {
			if o == e.Outcome {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Trigger != "" && f.Trigger != e.Trigger {
		return false
	}
	if f.Since != nil && e.FinishedAt.Before(*f.Since) {
		return false
	}
	return true
}
