// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package config provides centralized configuration management for Basketry.

Configuration is loaded in layers with Koanf v2: struct defaults, then an
optional YAML file (CONFIG_PATH or config.yaml in the working directory or
/etc/basketry), then environment variables. Later layers win.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, ENVIRONMENT

Database:
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS

Order source:
  - SOURCE_TYPE (local|mysql), SOURCE_MYSQL_DSN, SOURCE_TABLE_PREFIX,
    SOURCE_IMPORT_CSV_DIR, SOURCE_QUERY_TIMEOUT

Mining:
  - MINING_MIN_SUPPORT, MINING_MIN_CONFIDENCE, MINING_WORKERS,
    MINING_MAX_ITEMSET_SIZE, MINING_SCHEDULE_INTERVAL, MINING_RUN_ON_STARTUP,
    MINING_NAME_CACHE_SIZE

Recommendations:
  - RECOMMEND_DEFAULT_K, RECOMMEND_MAX_K, RECOMMEND_CACHE_SIZE, RECOMMEND_CACHE_TTL

Events:
  - EVENTS_NATS_ENABLED, NATS_URL, EVENTS_TOPIC

Security:
  - CORS_ORIGINS (comma separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW,
    DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example config.yaml

	database:
	  path: /data/basketry.duckdb
	source:
	  type: mysql
	  mysql_dsn: "host=127.0.0.1 user=shop password=secret database=wp_ecommerce"
	mining:
	  min_support: 0.001
	  min_confidence: 0.001
	  schedule_interval: 24h
*/
package config
