// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package websocket

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/mining"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// startHub runs a hub until the test ends.
func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// createTestClient creates a client without a connection.
func createTestClient(hub *Hub) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, 8)}
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.GetClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()
	if hub.clients == nil || hub.broadcast == nil || hub.Register == nil || hub.Unregister == nil {
		t.Fatal("NewHub() left fields uninitialised")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("GetClientCount() = %d, want 0", hub.GetClientCount())
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := startHub(t)
	c1, c2 := createTestClient(hub), createTestClient(hub)

	hub.Register <- c1
	hub.Register <- c2
	waitForClients(t, hub, 2)

	hub.Unregister <- c1
	waitForClients(t, hub, 1)
	if _, ok := <-c1.send; ok {
		t.Error("unregistered client's send channel still open")
	}

	// Unregistering twice is harmless.
	hub.Unregister <- c1
	waitForClients(t, hub, 1)
}

func TestHub_BroadcastRunEvent(t *testing.T) {
	tests := []struct {
		eventType string
		wantType  string
	}{
		{mining.EventStarted, MessageTypeRunStarted},
		{mining.EventCompleted, MessageTypeRunCompleted},
		{mining.EventEmpty, MessageTypeRunEmpty},
		{mining.EventFailed, MessageTypeRunFailed},
	}

	hub := startHub(t)
	client := createTestClient(hub)
	hub.Register <- client
	waitForClients(t, hub, 1)

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			hub.BroadcastRunEvent(context.Background(), mining.Event{
				Type:      tt.eventType,
				RunID:     "run-1",
				Trigger:   "api",
				Message:   "msg",
				Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			})
			msg := receive(t, client)
			if msg.Type != tt.wantType {
				t.Errorf("message type = %q, want %q", msg.Type, tt.wantType)
			}
			data, ok := msg.Data.(RunEventData)
			if !ok {
				t.Fatalf("data type = %T", msg.Data)
			}
			if data.RunID != "run-1" || data.Timestamp != "2026-01-02T03:04:05Z" {
				t.Errorf("data = %+v", data)
			}
		})
	}
}

func TestHub_BroadcastRunEvent_UnknownType(t *testing.T) {
	hub := NewHub()
	hub.BroadcastRunEvent(context.Background(), mining.Event{Type: "run.unknown"})
	if len(hub.broadcast) != 0 {
		t.Error("unknown event type was queued")
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := startHub(t)
	slow := &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message)}
	fast := createTestClient(hub)
	hub.Register <- slow
	hub.Register <- fast
	waitForClients(t, hub, 2)

	hub.BroadcastJSON(MessageTypeRunStarted, nil)
	receive(t, fast)
	waitForClients(t, hub, 1)
}

func TestHub_BroadcastJSON_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub() // not running, nothing drains the buffer
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.BroadcastJSON(MessageTypeRunStarted, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("BroadcastJSON blocked on a full buffer")
	}
}

func TestHub_ConcurrentBroadcasts(t *testing.T) {
	hub := startHub(t)
	client := &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, 512)}
	hub.Register <- client
	waitForClients(t, hub, 1)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				hub.BroadcastJSON(MessageTypeRunCompleted, j)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 100; i++ {
		receive(t, client)
	}
}

func TestHub_RunWithContext(t *testing.T) {
	tests := []struct {
		name    string
		makeCtx func() (context.Context, context.CancelFunc)
		want    error
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}, context.Canceled},
		{"deadline", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}, context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.makeCtx()
			defer cancel()

			hub := NewHub()
			errCh := make(chan error, 1)
			go func() { errCh <- hub.RunWithContext(ctx) }()

			select {
			case err := <-errCh:
				if !errors.Is(err, tt.want) {
					t.Errorf("RunWithContext() = %v, want %v", err, tt.want)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("RunWithContext did not return")
			}
		})
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()

	client := createTestClient(hub)
	hub.Register <- client
	waitForClients(t, hub, 1)

	cancel()
	<-done
	if hub.GetClientCount() != 0 {
		t.Errorf("GetClientCount() after shutdown = %d", hub.GetClientCount())
	}
	if _, ok := <-client.send; ok {
		t.Error("client channel still open after shutdown")
	}
}

func TestGetShutdownReason(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancel2 := context.WithTimeout(context.Background(), -time.Second)
	defer cancel2()

	if got := getShutdownReason(cancelled); got != ShutdownReasonContextCanceled {
		t.Errorf("cancelled reason = %q", got)
	}
	if got := getShutdownReason(expired); got != ShutdownReasonContextDeadline {
		t.Errorf("expired reason = %q", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: MessageTypeRunEmpty, Data: RunEventData{RunID: "r"}})
	if err != nil {
		t.Fatalf("MarshalMessage() error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["type"] != MessageTypeRunEmpty {
		t.Errorf("type = %v", decoded["type"])
	}
}
