// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package services adapts server components to suture.Service.

  - HTTPServerService: ListenAndServe with graceful Shutdown on cancel.
  - WebSocketHubService: the websocket hub's RunWithContext.
  - EventBusService: the Watermill router behind the event bus. A router
    that stops on its own is not restarted.
  - MiningScheduler: startup and interval runs through the mining
    coordinator. Busy, empty and failed runs are logged and the schedule
    continues.

Each wrapper implements fmt.Stringer so suture logs a readable name.
*/
package services
