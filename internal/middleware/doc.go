// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

/*
Package middleware provides HTTP middleware components for the application.

Key Components:

  - Request ID: UUID-based request tracking, propagated into the logging context
  - Prometheus Metrics: request count, latency and in-flight instrumentation
  - Compression: gzip for JSON and static responses, bypassed for event streams

All middleware uses the func(http.HandlerFunc) http.HandlerFunc shape; the
api package adapts them to chi with chiMiddleware.

Both response writer wrappers implement http.Flusher and Unwrap so that
server-sent events from /chatkit reach the client as they are produced.

Usage Example:

	handler := middleware.RequestID(
	    middleware.PrometheusMetrics(
	        middleware.Compression(mapHandler),
	    ),
	)
*/
package middleware
