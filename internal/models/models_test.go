// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/basketry/internal/mining"
)

func TestNewServerStatus(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		in       mining.Status
		wantNull bool
	}{
		{
			name:     "idle",
			in:       mining.Status{LastMessage: mining.MsgIdle},
			wantNull: true,
		},
		{
			name:     "failed",
			in:       mining.Status{LastMessage: "Error: boom", LastError: "boom", FinishedAt: &now},
			wantNull: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewServerStatus(tt.in)
			if got.Status != ServerStatusText {
				t.Errorf("Status = %q", got.Status)
			}
			if got.LastMessage != tt.in.LastMessage {
				t.Errorf("LastMessage = %q, want %q", got.LastMessage, tt.in.LastMessage)
			}

			data, err := json.Marshal(got)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			hasNull := strings.Contains(string(data), `"last_error":null`)
			if hasNull != tt.wantNull {
				t.Errorf("last_error null = %v, want %v: %s", hasNull, tt.wantNull, data)
			}
		})
	}
}

func TestNewServerStatus_CopiesLastError(t *testing.T) {
	s := mining.Status{LastError: "boom"}
	got := NewServerStatus(s)
	s.LastError = "changed"
	if got.LastError == nil || *got.LastError != "boom" {
		t.Errorf("LastError = %v, want boom", got.LastError)
	}
}

func TestAPIResponse_ErrorShape(t *testing.T) {
	resp := APIResponse{
		Status:   "error",
		Metadata: Metadata{Timestamp: time.Unix(0, 0).UTC()},
		Error:    &APIError{Code: "MINING_IN_PROGRESS", Message: mining.MsgBusy},
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"status":"error"`, `"data":null`, `"code":"MINING_IN_PROGRESS"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("response %s missing %s", data, want)
		}
	}
	if strings.Contains(string(data), "details") {
		t.Errorf("empty details should be omitted: %s", data)
	}
}
