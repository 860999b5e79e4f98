// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/metrics"
	"github.com/tomtom215/basketry/internal/mining"
)

// Metadata keys set on every published message.
const (
	MetadataEventType = "event_type"
	MetadataRunID     = "run_id"
	MetadataTrigger   = "trigger"
)

// HandlerFunc consumes one decoded run event. A returned error triggers
// the router's retry middleware.
type HandlerFunc func(ctx context.Context, ev mining.Event) error

// Bus carries mining run events from the coordinator to in-process
// consumers through a Watermill router, and optionally mirrors them to NATS.
//
// Handlers must be registered with Handle before Run. Events published
// while the router is not running are not delivered in process.
type Bus struct {
	cfg    Config
	logger watermill.LoggerAdapter
	pubsub *gochannel.GoChannel
	router *message.Router
	nats   *NATSPublisher

	mu     sync.RWMutex
	closed bool
}

// NewBus creates a bus. When cfg.NATSEnabled is set it also connects the
// NATS mirror.
func NewBus(cfg Config) (*Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.NewWatermillLogger()

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	if cfg.HandlerRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.HandlerRetries,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2.0,
			Logger:          logger,
		}
		router.AddMiddleware(retry.Middleware)
	}

	b := &Bus{
		cfg:    cfg,
		logger: logger,
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger),
		router: router,
	}

	if cfg.NATSEnabled {
		nats, err := NewNATSPublisher(cfg, logger)
		if err != nil {
			_ = router.Close()
			_ = b.pubsub.Close()
			return nil, err
		}
		b.nats = nats
	}
	return b, nil
}

// Handle registers a named consumer for every run event.
func (b *Bus) Handle(name string, fn HandlerFunc) {
	b.router.AddConsumerHandler(name, b.cfg.Topic, b.pubsub, func(msg *message.Message) error {
		var ev mining.Event
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			// Undecodable payloads are never going to succeed; drop them.
			b.logger.Error("Dropping undecodable run event", err, watermill.LogFields{"handler": name, "uuid": msg.UUID})
			return nil
		}
		ctx := msg.Context()
		if ev.RunID != "" {
			ctx = logging.ContextWithRunID(ctx, ev.RunID)
		}
		return fn(ctx, ev)
	})
}

// Publish encodes ev and publishes it in process and, when configured, to
// NATS. A NATS failure is logged and counted but does not fail the call.
func (b *Bus) Publish(ctx context.Context, ev mining.Event) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		metrics.RecordEventPublished(ev.Type, err)
		return fmt.Errorf("encode run event: %w", err)
	}

	msg := b.newMessage(ctx, ev, payload)
	if err := b.pubsub.Publish(b.cfg.Topic, msg); err != nil {
		metrics.RecordEventPublished(ev.Type, err)
		return fmt.Errorf("publish run event: %w", err)
	}
	metrics.RecordEventPublished(ev.Type, nil)

	if b.nats != nil {
		// Each publisher gets its own copy; Watermill messages carry ack state.
		if err := b.nats.Publish(b.cfg.Subject(ev.Type), b.newMessage(ctx, ev, payload)); err != nil {
			metrics.RecordEventPublished("nats."+ev.Type, err)
			logging.Ctx(ctx).Warn().Err(err).Str("event_type", ev.Type).Msg("Failed to mirror run event to NATS")
		} else {
			metrics.RecordEventPublished("nats."+ev.Type, nil)
		}
	}
	return nil
}

func (b *Bus) newMessage(ctx context.Context, ev mining.Event, payload []byte) *message.Message {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventType, ev.Type)
	msg.Metadata.Set(MetadataRunID, ev.RunID)
	msg.Metadata.Set(MetadataTrigger, ev.Trigger)
	msg.SetContext(context.WithoutCancel(ctx))
	return msg
}

// OnRunEvent publishes ev and logs failures. It has the mining.Listener
// signature for Coordinator.Subscribe.
func (b *Bus) OnRunEvent(ctx context.Context, ev mining.Event) {
	if err := b.Publish(ctx, ev); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_type", ev.Type).Msg("Failed to publish run event")
	}
}

// Run starts the router and blocks until ctx is cancelled.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running is closed once the router's handlers are subscribed.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// Close stops the router and releases the publishers.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	var firstErr error
	if err := b.router.Close(); err != nil {
		firstErr = err
	}
	if err := b.pubsub.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if b.nats != nil {
		if err := b.nats.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
