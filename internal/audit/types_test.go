// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package audit

import (
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/basketry/internal/mining"
)

func TestEntryFromEvent(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	finish := start.Add(1500 * time.Millisecond)
	summary := &mining.RunSummary{
		RunID:            "run-1",
		StartedAt:        start,
		FinishedAt:       finish,
		Transactions:     40,
		FrequentItemsets: 12,
		Rules:            9,
		Inserted:         7,
	}

	tests := []struct {
		name        string
		ev          mining.Event
		wantOK      bool
		wantOutcome Outcome
	}{
		{"started is skipped", mining.Event{Type: mining.EventStarted, RunID: "run-1"}, false, ""},
		{"unknown type", mining.Event{Type: "run.paused", RunID: "run-1"}, false, ""},
		{"missing run id", mining.Event{Type: mining.EventCompleted}, false, ""},
		{"completed", mining.Event{Type: mining.EventCompleted, RunID: "run-1", Trigger: "api", Summary: summary, Timestamp: finish}, true, OutcomeSuccess},
		{"empty", mining.Event{Type: mining.EventEmpty, RunID: "run-1", Summary: summary, Timestamp: finish}, true, OutcomeEmpty},
		{"failed", mining.Event{Type: mining.EventFailed, RunID: "run-1", Error: "boom", Summary: summary, Timestamp: finish}, true, OutcomeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := EntryFromEvent(tt.ev)
			if ok != tt.wantOK {
				t.Fatalf("EntryFromEvent() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if e.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q", e.Outcome, tt.wantOutcome)
			}
			if e.DurationMS != 1500 {
				t.Errorf("DurationMS = %d, want 1500", e.DurationMS)
			}
			if e.Transactions != 40 || e.Rules != 9 || e.EdgesStored != 7 || e.FrequentItemsets != 12 {
				t.Errorf("sizes = %+v", e)
			}
			var decoded mining.RunSummary
			if err := json.Unmarshal(e.Summary, &decoded); err != nil || decoded.RunID != "run-1" {
				t.Errorf("Summary = %s, err = %v", e.Summary, err)
			}
			if tt.ev.Error != "" && e.Error != tt.ev.Error {
				t.Errorf("Error = %q", e.Error)
			}
		})
	}
}

func TestEntryFromEvent_NoSummary(t *testing.T) {
	ts := time.Now()
	e, ok := EntryFromEvent(mining.Event{Type: mining.EventFailed, RunID: "r", Error: "panic", Timestamp: ts})
	if !ok {
		t.Fatal("EntryFromEvent() ok = false")
	}
	if !e.StartedAt.Equal(ts) || !e.FinishedAt.Equal(ts) || e.DurationMS != 0 || e.Summary != nil {
		t.Errorf("entry = %+v", e)
	}
}

func TestQueryFilter_Normalize(t *testing.T) {
	tests := []struct {
		in, want QueryFilter
	}{
		{QueryFilter{}, QueryFilter{Limit: DefaultQueryLimit}},
		{QueryFilter{Limit: 5, Offset: -1}, QueryFilter{Limit: 5}},
		{QueryFilter{Limit: MaxQueryLimit + 1}, QueryFilter{Limit: MaxQueryLimit}},
	}
	for _, tt := range tests {
		got := tt.in.normalize()
		if got.Limit != tt.want.Limit || got.Offset != tt.want.Offset {
			t.Errorf("normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestOutcome_Valid(t *testing.T) {
	for _, o := range []Outcome{OutcomeSuccess, OutcomeEmpty, OutcomeFailure} {
		if !o.Valid() {
			t.Errorf("%q.Valid() = false", o)
		}
	}
	if Outcome("partial").Valid() {
		t.Error(`"partial".Valid() = true`)
	}
}
