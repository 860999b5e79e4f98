// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// ContextHub is satisfied by *websocket.Hub.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService runs the websocket hub. The hub already has suture
// semantics; the wrapper only names it.
type WebSocketHubService struct {
	hub  ContextHub
	name string
}

// NewWebSocketHubService wraps hub.
func NewWebSocketHubService(hub ContextHub) *WebSocketHubService {
	return &WebSocketHubService{hub: hub, name: "websocket-hub"}
}

// Serve implements suture.Service.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

func (w *WebSocketHubService) String() string {
	return w.name
}

// EventRouter is satisfied by *eventprocessor.Bus.
type EventRouter interface {
	Run(ctx context.Context) error
}

// EventBusService runs the event bus router.
//
// A Watermill router cannot be started twice, so when it stops without
// the context being cancelled the service asks suture not to restart it.
// In-process events stop flowing at that point; mining and the API are
// unaffected.
type EventBusService struct {
	router EventRouter
	name   string
}

// NewEventBusService wraps router.
func NewEventBusService(router EventRouter) *EventBusService {
	return &EventBusService{router: router, name: "event-bus"}
}

// Serve implements suture.Service.
func (e *EventBusService) Serve(ctx context.Context) error {
	err := e.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("router stopped")
	}
	return fmt.Errorf("event bus: %w: %w", err, suture.ErrDoNotRestart)
}

func (e *EventBusService) String() string {
	return e.name
}
