// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/basketry/config.yaml",
	"/etc/basketry/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8085,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:                   "/data/basketry.duckdb",
			MaxMemory:              "1GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
		},
		Source: SourceConfig{
			Type:         SourceLocal,
			TablePrefix:  "wp_",
			QueryTimeout: 10 * time.Second,
		},
		Mining: MiningConfig{
			// Very low thresholds: anything bought together more than once
			// in a typical shop history survives.
			MinSupport:       0.001,
			MinConfidence:    0.001,
			Workers:          0,
			MaxItemsetSize:   0,
			ScheduleInterval: 0,
			RunOnStartup:     false,
			NameCacheSize:    10000,
		},
		Recommend: RecommendConfig{
			DefaultK:  6,
			MaxK:      100,
			CacheSize: 1000,
			CacheTTL:  5 * time.Minute,
		},
		Events: EventsConfig{
			NATSEnabled: false,
			NATSURL:     "nats://127.0.0.1:4222",
			Topic:       "basketry.mining.runs",
		},
		History: HistoryConfig{
			Enabled:         true,
			RetentionDays:   90,
			CleanupInterval: 24 * time.Hour,
			BufferSize:      64,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// MINING_MIN_SUPPORT -> mining.min_support, unmapped variables are ignored
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "" when there is none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower case) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Source
	"source_type":           "source.type",
	"source_mysql_dsn":      "source.mysql_dsn",
	"source_table_prefix":   "source.table_prefix",
	"source_import_csv_dir": "source.import_csv_dir",
	"source_query_timeout":  "source.query_timeout",

	// Mining
	"mining_min_support":       "mining.min_support",
	"mining_min_confidence":    "mining.min_confidence",
	"mining_workers":           "mining.workers",
	"mining_max_itemset_size":  "mining.max_itemset_size",
	"mining_schedule_interval": "mining.schedule_interval",
	"mining_run_on_startup":    "mining.run_on_startup",
	"mining_name_cache_size":   "mining.name_cache_size",

	// Recommend
	"recommend_default_k":  "recommend.default_k",
	"recommend_max_k":      "recommend.max_k",
	"recommend_cache_size": "recommend.cache_size",
	"recommend_cache_ttl":  "recommend.cache_ttl",

	// Events
	"events_nats_enabled": "events.nats_enabled",
	"nats_url":            "events.nats_url",
	"events_topic":        "events.topic",

	// History
	"history_enabled":          "history.enabled",
	"history_retention_days":   "history.retention_days",
	"history_cleanup_interval": "history.cleanup_interval",
	"history_buffer_size":      "history.buffer_size",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Variables without a mapping return "" so koanf skips them; this keeps
// unrelated process environment (PATH, HOME, ...) out of the config tree.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - MINING_MIN_SUPPORT -> mining.min_support
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
