// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package supervisor runs the long-lived parts of the server under a suture v4
supervisor tree.

	root ("basketry")
	├── mining-layer     scheduled association runs
	├── messaging-layer  event bus router, websocket hub
	└── api-layer        HTTP server

A service that returns an error is restarted with backoff; one that keeps
failing puts only its own layer into backoff. Supervisor events are logged
through sutureslog into the zerolog-backed slog handler from package logging.

	tree, _ := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	err := tree.Serve(ctx)

The service adapters live in the services subpackage.
*/
package supervisor
