// Basketry - Market-Basket Association Mining and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry with promauto and are
exposed at /metrics in Prometheus text format:

	curl http://localhost:8085/metrics

# Available Metrics

API Metrics:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Mining Metrics:
  - mining_runs_total{outcome}: success, empty or failure
  - mining_run_duration_seconds
  - mining_stage_duration_seconds{stage}: extract, encode, itemsets, rules, store
  - mining_runs_rejected_total: triggers refused because a run was active
  - mining_in_progress
  - mining_last_success_timestamp
  - mining_last_run_size{kind}: transactions, items, itemsets, rules, edges
  - rule_store_upserts_total{outcome}: inserted, replaced, discarded, failed

Query Metrics:
  - recommendation_queries_total{kind, result}
  - cache_hits_total, cache_misses_total, cache_entries{cache_type}

Infrastructure Metrics:
  - duckdb_query_duration_seconds, duckdb_query_errors_total
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total{name}
  - websocket_connections, websocket_messages_sent_total, websocket_errors_total
  - events_published_total{type, result}

# Example Queries

Failed runs over the last day:

	increase(mining_runs_total{outcome="failure"}[1d])

Share of upserts discarded by the max-confidence rule:

	sum(rate(rule_store_upserts_total{outcome="discarded"}[1h]))
	  / sum(rate(rule_store_upserts_total[1h]))
*/
package metrics
