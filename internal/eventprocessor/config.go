// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package eventprocessor

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the event bus configuration.
type Config struct {
	// Topic is the in-process topic and the NATS subject prefix.
	// Events go to "<Topic>.<event type>" on NATS.
	Topic string

	// NATSEnabled mirrors every event to an external NATS server.
	NATSEnabled bool

	// NATSURL is the NATS server connection URL.
	NATSURL string

	// MaxReconnects is the NATS reconnect budget (-1 = unlimited).
	MaxReconnects int

	// ReconnectWait is the delay between NATS reconnect attempts.
	ReconnectWait time.Duration

	// CloseTimeout bounds how long Close waits for handlers.
	CloseTimeout time.Duration

	// HandlerRetries is how many times a failing handler is retried.
	HandlerRetries int
}

// DefaultConfig returns in-process defaults with NATS disabled.
func DefaultConfig() Config {
	return Config{
		Topic:          "basketry.runs",
		NATSURL:        "nats://127.0.0.1:4222",
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
		CloseTimeout:   10 * time.Second,
		HandlerRetries: 3,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidConfig)
	}
	if strings.ContainsAny(c.Topic, " *>") {
		return fmt.Errorf("%w: topic %q must not contain spaces or wildcards", ErrInvalidConfig, c.Topic)
	}
	if c.NATSEnabled && c.NATSURL == "" {
		return fmt.Errorf("%w: NATS URL is required when NATS is enabled", ErrInvalidConfig)
	}
	if c.HandlerRetries < 0 {
		return fmt.Errorf("%w: handler retries must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// Subject returns the NATS subject for an event type.
func (c Config) Subject(eventType string) string {
	return c.Topic + "." + eventType
}
