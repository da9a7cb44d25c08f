// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry via promauto and are
exposed at /metrics:

	curl http://localhost:8000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)

Map Metrics:
  - metromap_writes_total: Map replacement attempts (counter)
    Labels: result (success, invalid)
  - metromap_revision: Current map revision (gauge)
  - metromap_stations / metromap_lines: Size of the current map (gauges)
  - metromap_snapshot_writes_total: BadgerDB snapshot writes (counter)
    Labels: result (success, failure)

Conversational Proxy Metrics:
  - chatkit_requests_total: /chatkit outcomes (counter)
    Labels: result (streaming, json, other, unavailable, circuit_open, error)
  - chatkit_stream_events_total: Events relayed to clients (counter)
  - chatkit_stream_duration_seconds: Lifetime of relayed streams (histogram)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through the breaker (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total (counter)
    Labels: name, from_state, to_state

# Usage

	start := time.Now()
	// ... handle request ...
	metrics.RecordAPIRequest(r.Method, "/map", "200", time.Since(start))
*/
package metrics
