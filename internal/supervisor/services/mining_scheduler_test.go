// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/mining"
)

type fakeTrigger struct {
	mu       sync.Mutex
	triggers []string
	results  []error
}

func (f *fakeTrigger) RunNow(_ context.Context, trigger string) (mining.RunSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, trigger)
	var err error
	if len(f.results) > 0 {
		err = f.results[0]
		f.results = f.results[1:]
	}
	return mining.RunSummary{Inserted: 3}, err
}

func (f *fakeTrigger) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.triggers...)
}

func TestMiningScheduler_RunOnStartupOnly(t *testing.T) {
	trig := &fakeTrigger{}
	s := NewMiningScheduler(trig, MiningSchedulerConfig{RunOnStartup: true}, zerolog.New(io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v", err)
	}
	if got := trig.calls(); len(got) != 1 || got[0] != TriggerStartup {
		t.Errorf("triggers = %v, want [startup]", got)
	}
}

func TestMiningScheduler_Interval(t *testing.T) {
	// Busy, empty and failing runs are all absorbed.
	trig := &fakeTrigger{results: []error{mining.ErrBusy, basket.ErrNoRules, errors.New("connection refused")}}
	s := NewMiningScheduler(trig, MiningSchedulerConfig{Interval: 10 * time.Millisecond}, zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for len(trig.calls()) < 4 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d scheduled runs", len(trig.calls()))
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want Canceled", err)
	}
	for _, tr := range trig.calls() {
		if tr != TriggerSchedule {
			t.Errorf("trigger = %q, want schedule", tr)
		}
	}
}

func TestMiningScheduler_NoScheduleNoStartup(t *testing.T) {
	trig := &fakeTrigger{}
	s := NewMiningScheduler(trig, MiningSchedulerConfig{}, zerolog.New(io.Discard))
	if s.String() != "mining-scheduler" {
		t.Errorf("String() = %q", s.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = s.Serve(ctx)
	if n := len(trig.calls()); n != 0 {
		t.Errorf("%d runs started, want 0", n)
	}
}

func TestMiningScheduler_WithCoordinator(t *testing.T) {
	coord := mining.NewCoordinator(runnerFunc(func(context.Context) (mining.RunSummary, error) {
		return mining.RunSummary{Rules: 1}, nil
	}))
	s := NewMiningScheduler(coord, MiningSchedulerConfig{RunOnStartup: true}, zerolog.New(io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = s.Serve(ctx)

	st := coord.Snapshot()
	if st.LastMessage != mining.MsgSuccess || st.LastRun == nil || st.LastRun.Rules != 1 {
		t.Errorf("coordinator status = %+v", st)
	}
}

type runnerFunc func(ctx context.Context) (mining.RunSummary, error)

func (f runnerFunc) Run(ctx context.Context) (mining.RunSummary, error) { return f(ctx) }
