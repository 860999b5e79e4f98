// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/mining"
)

// Config holds configuration for the run history logger.
type Config struct {
	// Enabled controls whether runs are recorded.
	Enabled bool

	// RetentionDays is how long entries are kept; 0 keeps them forever.
	RetentionDays int

	// CleanupInterval is how often retention cleanup runs.
	CleanupInterval time.Duration

	// BufferSize is the size of the async write buffer.
	BufferSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		RetentionDays:   90,
		CleanupInterval: 24 * time.Hour,
		BufferSize:      64,
	}
}

// Logger records finished mining runs. Entries are written by a single
// background goroutine so event handlers never wait on the database.
type Logger struct {
	config Config
	store  Store
	logger zerolog.Logger

	entries  chan *Entry
	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewLogger creates a logger writing to store and starts its writer.
func NewLogger(store Store, config Config) *Logger {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}

	l := &Logger{
		config:   config,
		store:    store,
		logger:   logging.WithComponent("run-history"),
		entries:  make(chan *Entry, config.BufferSize),
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.asyncWriter()
	return l
}

// asyncWriter persists buffered entries until Close.
func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			// Drain remaining entries
			for {
				select {
				case e := <-l.entries:
					l.write(e)
				default:
					return
				}
			}
		case e := <-l.entries:
			l.write(e)
		}
	}
}

func (l *Logger) write(e *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.store.Save(ctx, e); err != nil {
		l.logger.Error().Err(err).Str("run_id", e.RunID).Msg("Failed to save mining run")
	}
}

// Record queues an entry. It never blocks; a full buffer drops the entry.
func (l *Logger) Record(e Entry) {
	if !l.config.Enabled {
		return
	}
	select {
	case <-l.stopChan:
		return
	default:
	}
	select {
	case l.entries <- &e:
	default:
		l.logger.Warn().Str("run_id", e.RunID).Msg("Run history buffer full, dropping entry")
	}
}

// HandleRunEvent records terminal run events. It has the signature of an
// event bus handler.
func (l *Logger) HandleRunEvent(_ context.Context, ev mining.Event) error {
	if e, ok := EntryFromEvent(ev); ok {
		l.Record(e)
	}
	return nil
}

// Query returns entries matching the filter, newest first.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	return l.store.Query(ctx, filter)
}

// Count returns the number of entries matching the filter.
func (l *Logger) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return l.store.Count(ctx, filter)
}

// Cleanup deletes entries older than the retention period.
func (l *Logger) Cleanup(ctx context.Context) (int64, error) {
	if l.config.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -l.config.RetentionDays)
	count, err := l.store.Delete(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		l.logger.Info().Int64("count", count).Time("older_than", cutoff).Msg("Cleaned up old mining runs")
	}
	return count, nil
}

// Serve runs retention cleanup on CleanupInterval until ctx is done. It
// implements suture.Service.
func (l *Logger) Serve(ctx context.Context) error {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := l.Cleanup(ctx); err != nil {
				l.logger.Error().Err(err).Msg("Run history cleanup error")
			}
		}
	}
}

func (l *Logger) String() string {
	return "run-history"
}

// Close flushes buffered entries and stops the writer.
func (l *Logger) Close() error {
	l.stopOnce.Do(func() { close(l.stopChan) })
	l.wg.Wait()
	return nil
}
