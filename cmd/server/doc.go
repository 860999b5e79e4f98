// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package main is the entry point for the Basketry server.

Basketry mines association rules from shop order history and serves
"customers also bought" recommendations from the resulting rule store.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("basketry")
	├── MiningSupervisor ("mining-layer")
	│   └── Mining scheduler (startup and interval runs)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (run notifications)
	│   ├── Event bus (Watermill router, optional NATS mirror)
	│   └── Run history (retention cleanup)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration (Koanf v2: defaults, config.yaml, environment)
 2. DuckDB database and schema
 3. Order source: local tables, optionally seeded from CSV, or an attached
    WooCommerce MySQL database
 4. Mining pipeline and run coordinator
 5. Recommendation service, event bus, run history and websocket hub
 6. HTTP router and supervisor tree

# Run Events

The coordinator publishes run.started, run.completed, run.empty and
run.failed to the event bus. Bus handlers purge the recommendation cache
after a completed run, record finished runs in the mining_runs table
(served at GET /api/runs) and forward every event to websocket clients.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests, an active mining run is given time to finish, and the
database is checkpointed and closed.

# Example Usage

Local tables seeded from CSV:

	export SOURCE_IMPORT_CSV_DIR=/data/seed
	export MINING_RUN_ON_STARTUP=true
	./basketry

WooCommerce source:

	export SOURCE_TYPE=mysql
	export SOURCE_MYSQL_DSN="host=db user=shop password=secret database=wp_ecommerce"
	export MINING_SCHEDULE_INTERVAL=6h
	./basketry

Trigger a run and query it:

	curl -X POST http://localhost:8085/api/association
	curl "http://localhost:8085/api/recommendations?items=12,40&k=5"
*/
package main
