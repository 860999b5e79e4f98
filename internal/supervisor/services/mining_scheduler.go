// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketry/internal/basket"
	"github.com/tomtom215/basketry/internal/mining"
)

// MiningTrigger is satisfied by *mining.Coordinator.
type MiningTrigger interface {
	RunNow(ctx context.Context, trigger string) (mining.RunSummary, error)
}

// Trigger names recorded on runs started by the scheduler.
const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
)

// MiningSchedulerConfig controls when the scheduler starts runs.
type MiningSchedulerConfig struct {
	// RunOnStartup starts a run as soon as the service is up.
	RunOnStartup bool

	// Interval between scheduled runs. Zero disables the schedule; runs
	// then only happen through the API.
	Interval time.Duration
}

// MiningScheduler starts association runs on a timer through the
// coordinator, so scheduled and API-triggered runs share the single-run
// guarantee. A tick that lands on an active run is skipped.
type MiningScheduler struct {
	trigger MiningTrigger
	config  MiningSchedulerConfig
	logger  zerolog.Logger
	name    string
}

// NewMiningScheduler creates the scheduler service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMiningScheduler(trigger MiningTrigger, cfg MiningSchedulerConfig, logger zerolog.Logger) *MiningScheduler {
	return &MiningScheduler{
		trigger: trigger,
		config:  cfg,
		logger:  logger.With().Str("service", "mining-scheduler").Logger(),
		name:    "mining-scheduler",
	}
}

// Serve implements suture.Service. Run failures are logged, never returned:
// a bad data source should not put the mining layer into backoff.
func (s *MiningScheduler) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("mining scheduler starting")

	if s.config.RunOnStartup {
		s.run(ctx, TriggerStartup)
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("mining scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx, TriggerSchedule)
		}
	}
}

func (s *MiningScheduler) run(ctx context.Context, trigger string) {
	summary, err := s.trigger.RunNow(ctx, trigger)
	switch {
	case err == nil:
		s.logger.Info().Str("trigger", trigger).Int("edges", summary.Stored()).Msg("scheduled mining run finished")
	case errors.Is(err, mining.ErrBusy):
		s.logger.Info().Str("trigger", trigger).Msg("mining run already in progress, skipping")
	case errors.Is(err, basket.ErrEmptyInput):
		s.logger.Info().Str("trigger", trigger).Err(err).Msg("scheduled mining run found no rules")
	default:
		s.logger.Warn().Str("trigger", trigger).Err(err).Msg("scheduled mining run failed")
	}
}

func (s *MiningScheduler) String() string {
	return s.name
}
