// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newHubServer serves ServeWS for hub.
func newHubServer(t *testing.T, hub *Hub, origins []string) *httptest.Server {
	t.Helper()
	upgrader := NewUpgrader(origins)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, upgrader, w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return websocket.DefaultDialer.Dial(wsURL, header)
}

func TestNewClient_UniqueIDs(t *testing.T) {
	hub := NewHub()
	a, b := NewClient(hub, nil), NewClient(hub, nil)
	if a.ID() >= b.ID() {
		t.Errorf("ids not increasing: %d then %d", a.ID(), b.ID())
	}
	if cap(a.send) == 0 {
		t.Error("send channel is unbuffered")
	}
}

func TestServeWS_ReceivesBroadcast(t *testing.T) {
	hub := startHub(t)
	server := newHubServer(t, hub, nil)

	conn, resp, err := dial(t, server, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, 1)

	hub.BroadcastJSON(MessageTypeRunCompleted, map[string]int{"edges": 2})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != MessageTypeRunCompleted {
		t.Errorf("type = %q", msg.Type)
	}
}

func TestServeWS_PingPong(t *testing.T) {
	hub := startHub(t)
	server := newHubServer(t, hub, nil)

	conn, resp, err := dial(t, server, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != MessageTypePong {
		t.Errorf("type = %q, want pong", msg.Type)
	}
}

func TestServeWS_DisconnectUnregisters(t *testing.T) {
	hub := startHub(t)
	server := newHubServer(t, hub, nil)

	conn, resp, err := dial(t, server, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	waitForClients(t, hub, 1)
	_ = conn.Close()
	waitForClients(t, hub, 0)
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no origin header", []string{"https://shop.example"}, "", true},
		{"no restriction", nil, "https://evil.example", true},
		{"wildcard", []string{"*"}, "https://any.example", true},
		{"listed", []string{"https://shop.example"}, "https://shop.example", true},
		{"not listed", []string{"https://shop.example"}, "https://evil.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := NewUpgrader(tt.allowed).CheckOrigin(r); got != tt.want {
				t.Errorf("CheckOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServeWS_RejectsPlainHTTP(t *testing.T) {
	hub := NewHub()
	rec := httptest.NewRecorder()
	ServeWS(hub, NewUpgrader(nil), rec, httptest.NewRequest(http.MethodGet, "/api/ws", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
