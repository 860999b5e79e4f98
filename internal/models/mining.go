// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package models

import (
	"time"

	"github.com/tomtom215/basketry/internal/audit"
	"github.com/tomtom215/basketry/internal/mining"
)

// ServerStatusText is reported by the status endpoint while the process is up.
const ServerStatusText = "Server is running"

// TriggerResponse is returned when a mining run is accepted.
type TriggerResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	RunID   string `json:"run_id"`
}

// ServerStatus reports the mining coordinator state.
// LastError is null until a run fails and again after a successful run.
type ServerStatus struct {
	Status      string             `json:"status"`
	Running     bool               `json:"running"`
	RunID       string             `json:"run_id,omitempty"`
	LastMessage string             `json:"last_message"`
	LastError   *string            `json:"last_error"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	FinishedAt  *time.Time         `json:"finished_at,omitempty"`
	LastRun     *mining.RunSummary `json:"last_run,omitempty"`
}

// NewServerStatus converts a coordinator snapshot into the API shape.
func NewServerStatus(s mining.Status) ServerStatus {
	out := ServerStatus{
		Status:      ServerStatusText,
		Running:     s.Running,
		RunID:       s.RunID,
		LastMessage: s.LastMessage,
		StartedAt:   s.StartedAt,
		FinishedAt:  s.FinishedAt,
		LastRun:     s.LastRun,
	}
	if s.LastError != "" {
		e := s.LastError
		out.LastError = &e
	}
	return out
}

// RunHistoryResponse is one page of finished mining runs, newest first.
// Total counts every run matching the filter, ignoring limit and offset.
type RunHistoryResponse struct {
	Runs   []audit.Entry `json:"runs"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}
