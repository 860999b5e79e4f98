// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package models

// HealthStatus is returned by the health endpoint.
// Status is "healthy" when the database answers a ping, "degraded" otherwise.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	SourceAttached    bool    `json:"source_attached"`
	MiningRunning     bool    `json:"mining_running"`
	CatalogBreaker    string  `json:"catalog_breaker,omitempty"`
	WebSocketClients  int     `json:"websocket_clients"`
	Uptime            float64 `json:"uptime_seconds"`
}
