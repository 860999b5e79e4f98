// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/metrics"
)

// ErrBusy is returned when a run is requested while another is in flight.
var ErrBusy = errors.New("mining run already in progress")

// Status messages reported through Snapshot.
const (
	MsgIdle        = "No association process has run yet."
	MsgStarting    = "Starting custom product generation..."
	MsgSuccess     = "Custom product generation completed successfully."
	MsgNoData      = "Custom product generation finished without rules: "
	MsgBusy        = "Custom product generation is already in progress. Please wait."
	MsgAccepted    = "Custom product generation started in background."
	msgErrorPrefix = "Error: "
)

// Runner executes one mining run. *Pipeline implements it.
type Runner interface {
	Run(ctx context.Context) (RunSummary, error)
}

// Status is a consistent snapshot of the coordinator state.
type Status struct {
	Running     bool        `json:"running"`
	RunID       string      `json:"run_id,omitempty"`
	LastMessage string      `json:"last_message"`
	LastError   string      `json:"last_error,omitempty"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	FinishedAt  *time.Time  `json:"finished_at,omitempty"`
	LastRun     *RunSummary `json:"last_run,omitempty"`
}

// Event types emitted to listeners.
const (
	EventStarted   = "run.started"
	EventCompleted = "run.completed"
	EventEmpty     = "run.empty"
	EventFailed    = "run.failed"
)

// Event describes a run lifecycle transition.
type Event struct {
	Type      string      `json:"type"`
	RunID     string      `json:"run_id"`
	Trigger   string      `json:"trigger"`
	Message   string      `json:"message"`
	Error     string      `json:"error,omitempty"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Listener receives run events. Listeners are called synchronously from
// the run goroutine and must not block.
type Listener func(ctx context.Context, ev Event)

// Coordinator guarantees at most one mining run process-wide and owns the
// observable status record.
//
// The run lock and the status lock are separate: runMu is held for the
// whole run and only ever TryLock'ed, statusMu guards the record for the
// few instructions it takes to copy or update it. A status read therefore
// never waits on a running pipeline.
type Coordinator struct {
	runner Runner
	logger zerolog.Logger

	runMu sync.Mutex

	statusMu sync.RWMutex
	status   Status

	listenersMu sync.RWMutex
	listeners   []Listener

	wg sync.WaitGroup
}

// NewCoordinator creates a coordinator for runner.
func NewCoordinator(runner Runner) *Coordinator {
	return &Coordinator{
		runner: runner,
		logger: logging.WithComponent("coordinator"),
		status: Status{LastMessage: MsgIdle},
	}
}

// Subscribe registers a listener for run events.
func (c *Coordinator) Subscribe(l Listener) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, l)
}

// TryStart starts a run in the background and returns its id, or ErrBusy
// without queueing when a run is active. The run is detached from ctx:
// it is neither cancelled nor timed out when the caller goes away.
func (c *Coordinator) TryStart(ctx context.Context, trigger string) (string, error) {
	runCtx, runID, err := c.begin(ctx, trigger)
	if err != nil {
		return "", err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.runMu.Unlock()
		_, _ = c.execute(runCtx, runID, trigger)
	}()
	return runID, nil
}

// RunNow runs synchronously in the caller's goroutine. It returns ErrBusy
// when another run is active.
func (c *Coordinator) RunNow(ctx context.Context, trigger string) (RunSummary, error) {
	runCtx, runID, err := c.begin(ctx, trigger)
	if err != nil {
		return RunSummary{}, err
	}
	defer c.runMu.Unlock()
	return c.execute(runCtx, runID, trigger)
}

// begin acquires the run lock and publishes the running status.
// On success the caller owns runMu.
func (c *Coordinator) begin(ctx context.Context, trigger string) (context.Context, string, error) {
	if !c.runMu.TryLock() {
		metrics.MiningRejected.Inc()
		c.logger.Info().Str("trigger", trigger).Msg("Mining run rejected, another run is in progress")
		return nil, "", ErrBusy
	}

	runID := uuid.New().String()
	now := time.Now()

	c.statusMu.Lock()
	c.status.Running = true
	c.status.RunID = runID
	c.status.LastMessage = MsgStarting
	c.status.LastError = ""
	c.status.StartedAt = &now
	c.status.FinishedAt = nil
	c.statusMu.Unlock()

	metrics.SetMiningInProgress(true)

	runCtx := logging.ContextWithRunID(context.WithoutCancel(ctx), runID)
	c.emit(runCtx, Event{Type: EventStarted, RunID: runID, Trigger: trigger, Message: MsgStarting, Timestamp: now})
	return runCtx, runID, nil
}

// execute runs the pipeline and records the outcome. runMu must be held.
func (c *Coordinator) execute(ctx context.Context, runID, trigger string) (summary RunSummary, err error) {
	log := c.logger.With().Str("run_id", runID).Str("trigger", trigger).Logger()
	log.Info().Msg("Mining run started")
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Mining run panicked")
			err = errors.New("mining run panicked")
			c.finish(ctx, runID, trigger, summary, err, time.Since(start))
		}
	}()

	summary, err = c.runner.Run(ctx)
	summary.RunID = runID
	c.finish(ctx, runID, trigger, summary, err, time.Since(start))
	return summary, err
}

// finish publishes the final status, metrics and event.
func (c *Coordinator) finish(ctx context.Context, runID, trigger string, summary RunSummary, err error, elapsed time.Duration) {
	now := time.Now()
	ev := Event{RunID: runID, Trigger: trigger, Timestamp: now, Summary: &summary}
	outcome := metrics.OutcomeSuccess

	switch {
	case err == nil:
		ev.Type = EventCompleted
		ev.Message = MsgSuccess
	case errors.Is(err, basket.ErrEmptyInput):
		ev.Type = EventEmpty
		ev.Message = MsgNoData + err.Error()
		outcome = metrics.OutcomeEmpty
	default:
		ev.Type = EventFailed
		ev.Message = msgErrorPrefix + err.Error()
		ev.Error = err.Error()
		outcome = metrics.OutcomeFailure
	}

	c.statusMu.Lock()
	c.status.Running = false
	c.status.LastMessage = ev.Message
	c.status.LastError = ev.Error
	c.status.FinishedAt = &now
	s := summary
	c.status.LastRun = &s
	c.statusMu.Unlock()

	metrics.SetMiningInProgress(false)
	metrics.RecordMiningRun(outcome, elapsed)
	metrics.MiningResultSize.WithLabelValues("transactions").Set(float64(summary.Transactions))
	metrics.MiningResultSize.WithLabelValues("items").Set(float64(summary.Items))
	metrics.MiningResultSize.WithLabelValues("itemsets").Set(float64(summary.FrequentItemsets))
	metrics.MiningResultSize.WithLabelValues("rules").Set(float64(summary.Rules))
	metrics.MiningResultSize.WithLabelValues("edges").Set(float64(summary.Stored()))

	log := c.logger.With().Str("run_id", runID).Dur("elapsed", elapsed).Logger()
	switch outcome {
	case metrics.OutcomeFailure:
		log.Error().Err(err).Msg("Mining run failed")
	case metrics.OutcomeEmpty:
		log.Info().Err(err).Msg("Mining run finished without rules")
	default:
		log.Info().Int("edges_stored", summary.Stored()).Msg("Mining run completed")
	}

	c.emit(ctx, ev)
}

func (c *Coordinator) emit(ctx context.Context, ev Event) {
	c.listenersMu.RLock()
	listeners := append([]Listener(nil), c.listeners...)
	c.listenersMu.RUnlock()

	for _, l := range listeners {
		l(ctx, ev)
	}
}

// Snapshot returns a copy of the status record.
func (c *Coordinator) Snapshot() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()

	s := c.status
	if s.LastRun != nil {
		run := *s.LastRun
		s.LastRun = &run
	}
	return s
}

// Running reports whether a run is in flight.
func (c *Coordinator) Running() bool {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status.Running
}

// Wait blocks until every background run started by TryStart has finished
// or ctx is done.
func (c *Coordinator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
