// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package logging provides centralized zerolog-based logging for Basketry.
//
// A single global zerolog logger is configured once from config.LoggingConfig
// and shared by every package. JSON output is the default; console output is
// available for development.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//	logging.Info().Msg("Server starting")
//	logging.Ctx(ctx).Info().Int("rules", n).Msg("Rules generated")
//
// # Context Fields
//
// Ctx(ctx) attaches correlation_id, request_id and run_id when present. The
// HTTP middleware sets request_id; the mining coordinator sets run_id.
//
// # Adapters
//
//   - NewSlogLogger: *slog.Logger for sutureslog
//   - NewWatermillLogger: watermill.LoggerAdapter for the event bus
//
// Always terminate log chains with .Msg() or .Send().
package logging
