// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Data:
//     - Database: local DuckDB file holding the rule store
//     - Source: where order history is read from (local tables or an attached MySQL shop)
//
//  2. Mining & Serving:
//     - Mining: Apriori thresholds, worker count, schedule
//     - Recommend: query defaults and the result cache
//     - Events: run lifecycle events (in-process bus, optional NATS)
//     - History: persisted mining run history and its retention
//
//  3. HTTP:
//     - Server: listen address and timeouts
//     - Security: CORS and rate limiting
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(&cfg.Database)
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Source    SourceConfig    `koanf:"source"`
	Mining    MiningConfig    `koanf:"mining"`
	Recommend RecommendConfig `koanf:"recommend"`
	Events    EventsConfig    `koanf:"events"`
	History   HistoryConfig   `koanf:"history"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// DatabaseConfig holds DuckDB connection settings.
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path (default: /data/basketry.duckdb)
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
//   - DUCKDB_THREADS: Worker threads, 0 = runtime.NumCPU() (default: 0)
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
}

// Source types.
const (
	SourceLocal = "local"
	SourceMySQL = "mysql"
)

// SourceConfig selects the order history repository.
//
// With Type "local" orders are read from the order_items and products tables
// inside the DuckDB file; ImportCSVDir, when set, seeds those tables at
// startup from order_items.csv and products.csv.
//
// With Type "mysql" the WooCommerce database is attached read-only through
// the DuckDB mysql extension and queried in place.
//
// Environment Variables:
//   - SOURCE_TYPE: local or mysql (default: local)
//   - SOURCE_MYSQL_DSN: libmysql style DSN, e.g. "host=db user=shop database=wp_ecommerce"
//   - SOURCE_TABLE_PREFIX: WooCommerce table prefix (default: wp_)
//   - SOURCE_IMPORT_CSV_DIR: directory with CSV seed files
//   - SOURCE_QUERY_TIMEOUT: per-query timeout for name lookups (default: 10s)
type SourceConfig struct {
	Type         string        `koanf:"type"`
	MySQLDSN     string        `koanf:"mysql_dsn"`
	TablePrefix  string        `koanf:"table_prefix"`
	ImportCSVDir string        `koanf:"import_csv_dir"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// MiningConfig tunes the association pipeline.
//
// Environment Variables:
//   - MINING_MIN_SUPPORT: minimum itemset support fraction (default: 0.001)
//   - MINING_MIN_CONFIDENCE: minimum rule confidence (default: 0.001)
//   - MINING_WORKERS: goroutines for support counting, 0 = runtime.NumCPU()
//   - MINING_MAX_ITEMSET_SIZE: largest itemset mined, 0 = unbounded
//   - MINING_SCHEDULE_INTERVAL: periodic run interval, 0 = manual only
//   - MINING_RUN_ON_STARTUP: run once when the server starts (default: false)
//   - MINING_NAME_CACHE_SIZE: product names cached per run (default: 10000)
type MiningConfig struct {
	MinSupport       float64       `koanf:"min_support"`
	MinConfidence    float64       `koanf:"min_confidence"`
	Workers          int           `koanf:"workers"`
	MaxItemsetSize   int           `koanf:"max_itemset_size"`
	ScheduleInterval time.Duration `koanf:"schedule_interval"`
	RunOnStartup     bool          `koanf:"run_on_startup"`
	NameCacheSize    int           `koanf:"name_cache_size"`
}

// RecommendConfig holds query defaults and result caching.
type RecommendConfig struct {
	DefaultK  int           `koanf:"default_k"`
	MaxK      int           `koanf:"max_k"`
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// EventsConfig controls run lifecycle event publishing. Events always go
// to the in-process bus; NATS forwarding is opt-in.
//
// Environment Variables:
//   - EVENTS_NATS_ENABLED: forward events to NATS (default: false)
//   - NATS_URL: NATS server URL (default: nats://127.0.0.1:4222)
//   - EVENTS_TOPIC: topic for run events (default: basketry.mining.runs)
type EventsConfig struct {
	NATSEnabled bool   `koanf:"nats_enabled"`
	NATSURL     string `koanf:"nats_url"`
	Topic       string `koanf:"topic"`
}

// HistoryConfig controls the mining run history.
//
// Environment Variables:
//   - HISTORY_ENABLED: record finished runs (default: true)
//   - HISTORY_RETENTION_DAYS: days to keep runs, 0 keeps forever (default: 90)
//   - HISTORY_CLEANUP_INTERVAL: how often old runs are purged (default: 24h)
//   - HISTORY_BUFFER_SIZE: async write buffer size (default: 64)
type HistoryConfig struct {
	Enabled         bool          `koanf:"enabled"`
	RetentionDays   int           `koanf:"retention_days"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	BufferSize      int           `koanf:"buffer_size"`
}

// SecurityConfig holds CORS and rate limiting settings. The service exposes
// no authenticated surface.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration using the layered Koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
