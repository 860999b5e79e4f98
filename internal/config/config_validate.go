// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateSource,
		c.validateMining,
		c.validateRecommend,
		c.validateEvents,
		c.validateHistory,
		c.validateSecurity,
		c.validateLogging,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateDatabase validates DuckDB settings
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0")
	}
	return nil
}

// validateSource validates the order repository selection
func (c *Config) validateSource() error {
	switch c.Source.Type {
	case SourceLocal:
	case SourceMySQL:
		if strings.TrimSpace(c.Source.MySQLDSN) == "" {
			return fmt.Errorf("SOURCE_MYSQL_DSN is required when SOURCE_TYPE=mysql")
		}
		if strings.ContainsAny(c.Source.MySQLDSN, "'") {
			return fmt.Errorf("SOURCE_MYSQL_DSN must not contain single quotes")
		}
	default:
		return fmt.Errorf("SOURCE_TYPE must be one of: local, mysql")
	}

	if !isIdentifier(c.Source.TablePrefix) {
		return fmt.Errorf("SOURCE_TABLE_PREFIX may only contain letters, digits and underscores")
	}
	if c.Source.QueryTimeout <= 0 {
		return fmt.Errorf("SOURCE_QUERY_TIMEOUT must be positive")
	}
	return nil
}

// validateMining validates the pipeline thresholds
func (c *Config) validateMining() error {
	if c.Mining.MinSupport <= 0 || c.Mining.MinSupport > 1 {
		return fmt.Errorf("MINING_MIN_SUPPORT must be in (0, 1]")
	}
	if c.Mining.MinConfidence < 0 || c.Mining.MinConfidence > 1 {
		return fmt.Errorf("MINING_MIN_CONFIDENCE must be in [0, 1]")
	}
	if c.Mining.Workers < 0 {
		return fmt.Errorf("MINING_WORKERS must be >= 0")
	}
	if c.Mining.MaxItemsetSize < 0 {
		return fmt.Errorf("MINING_MAX_ITEMSET_SIZE must be >= 0")
	}
	if c.Mining.ScheduleInterval != 0 && c.Mining.ScheduleInterval < time.Minute {
		return fmt.Errorf("MINING_SCHEDULE_INTERVAL must be 0 (disabled) or at least 1m")
	}
	if c.Mining.NameCacheSize < 1 {
		return fmt.Errorf("MINING_NAME_CACHE_SIZE must be at least 1")
	}
	return nil
}

// validateRecommend validates query defaults
func (c *Config) validateRecommend() error {
	if c.Recommend.MaxK < 1 {
		return fmt.Errorf("RECOMMEND_MAX_K must be at least 1")
	}
	if c.Recommend.DefaultK < 1 || c.Recommend.DefaultK > c.Recommend.MaxK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be between 1 and RECOMMEND_MAX_K (%d)", c.Recommend.MaxK)
	}
	if c.Recommend.CacheSize < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must be >= 0")
	}
	if c.Recommend.CacheSize > 0 && c.Recommend.CacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when caching is enabled")
	}
	return nil
}

// validateEvents validates event publishing (NATS only if enabled)
func (c *Config) validateEvents() error {
	if c.Events.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC is required")
	}
	if !c.Events.NATSEnabled {
		return nil
	}
	if err := validateNATSURL(c.Events.NATSURL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	return nil
}

// validateHistory validates run history settings
func (c *Config) validateHistory() error {
	if !c.History.Enabled {
		return nil
	}
	if c.History.RetentionDays < 0 {
		return fmt.Errorf("HISTORY_RETENTION_DAYS must be non-negative")
	}
	if c.History.CleanupInterval <= 0 {
		return fmt.Errorf("HISTORY_CLEANUP_INTERVAL must be positive")
	}
	if c.History.BufferSize < 1 {
		return fmt.Errorf("HISTORY_BUFFER_SIZE must be at least 1")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateSecurity validates CORS and rate limiting
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return c.validateRateLimits()
}

// validateRateLimits validates rate limiting bounds
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// ShouldWarnAboutCORS returns true when wildcard CORS is used in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// isIdentifier reports whether s is safe to splice into SQL as part of a
// table name.
func isIdentifier(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
