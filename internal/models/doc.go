// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package models defines the JSON shapes returned by the HTTP API.
//
// Every endpoint wraps its payload in APIResponse. The payload types here
// are thin views over the mining and recommend packages so those packages
// stay free of transport concerns.
package models
