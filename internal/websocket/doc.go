// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package websocket pushes mining run progress to browser clients.

The hub is subscribed to the mining coordinator and turns each run event
into a message:

  - run_started: a run acquired the lock
  - run_completed: the rule store was rebuilt
  - run_empty: the run found nothing to mine; the store is unchanged
  - run_failed: the run aborted, data carries the error

Clients may send {"type":"ping"} and receive {"type":"pong"}. Each client
has a read goroutine and a write goroutine; a client that cannot keep up
with broadcasts is disconnected rather than slowing the hub.

	hub := websocket.NewHub()
	coord.Subscribe(hub.BroadcastRunEvent)
	go hub.RunWithContext(ctx)

	r.Get("/api/ws", func(w http.ResponseWriter, r *http.Request) {
	    websocket.ServeWS(hub, websocket.NewUpgrader(origins), w, r)
	})
*/
package websocket
