// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package models

import (
	"time"
)

// APIResponse is the envelope used by every JSON endpoint.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {
//	    "code": "MINING_IN_PROGRESS",
//	    "message": "Custom product generation is already in progress. Please wait."
//	  },
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z", "request_id": "..."}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError carries a stable machine-readable code and a human message.
//
// Codes in use:
//   - VALIDATION_ERROR: malformed or out-of-range parameters
//   - MINING_IN_PROGRESS: a run is already active
//   - QUERY_ERROR: the rule store could not be read
//   - RATE_LIMIT_EXCEEDED: too many requests from one client
//   - NOT_FOUND, METHOD_NOT_ALLOWED, INTERNAL_ERROR
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
