// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Map Metrics
	MapWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metromap_writes_total",
			Help: "Total number of metro map replacement attempts",
		},
		[]string{"result"}, // "success", "invalid"
	)

	MapRevision = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "metromap_revision",
			Help: "Revision number of the current metro map",
		},
	)

	MapStations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "metromap_stations",
			Help: "Number of stations in the current metro map",
		},
	)

	MapLines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "metromap_lines",
			Help: "Number of lines in the current metro map",
		},
	)

	SnapshotWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metromap_snapshot_writes_total",
			Help: "Total number of metro map snapshot writes",
		},
		[]string{"result"},
	)

	// Conversational Proxy Metrics
	ChatKitRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatkit_requests_total",
			Help: "Total number of conversational requests by outcome",
		},
		[]string{"result"},
	)

	ChatKitStreamEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatkit_stream_events_total",
			Help: "Total number of streamed events relayed to clients",
		},
	)

	ChatKitStreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatkit_stream_duration_seconds",
			Help:    "Lifetime of relayed event streams in seconds",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordMapWrite records a map replacement attempt. On success the size and
// revision gauges are updated to describe the new map.
func RecordMapWrite(ok bool, revision uint64, stations, lines int) {
	if !ok {
		MapWritesTotal.WithLabelValues("invalid").Inc()
		return
	}
	MapWritesTotal.WithLabelValues("success").Inc()
	SetMapGauges(revision, stations, lines)
}

// SetMapGauges publishes the shape of the current map.
func SetMapGauges(revision uint64, stations, lines int) {
	MapRevision.Set(float64(revision))
	MapStations.Set(float64(stations))
	MapLines.Set(float64(lines))
}

// RecordSnapshotWrite records a BadgerDB snapshot write.
func RecordSnapshotWrite(err error) {
	if err != nil {
		SnapshotWritesTotal.WithLabelValues("failure").Inc()
		return
	}
	SnapshotWritesTotal.WithLabelValues("success").Inc()
}

// RecordChatKitRequest records the outcome of a /chatkit request.
func RecordChatKitRequest(result string) {
	ChatKitRequestsTotal.WithLabelValues(result).Inc()
}

// RecordStreamEvent counts one relayed event.
func RecordStreamEvent() {
	ChatKitStreamEvents.Inc()
}

// RecordStreamDuration records how long a relayed stream stayed open.
func RecordStreamDuration(d time.Duration) {
	ChatKitStreamDuration.Observe(d.Seconds())
}

// RecordBreakerResult records a call through a named circuit breaker.
func RecordBreakerResult(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordBreakerTransition records a state change and updates the state gauge.
// state uses the gauge encoding 0=closed, 1=half-open, 2=open.
func RecordBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(state)
}
