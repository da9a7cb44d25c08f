// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/metromap/internal/metrics"
)

func TestPrometheusMetrics_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/*", PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	counter := metrics.APIRequestsTotal.WithLabelValues("GET", "/*", "200")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/editor", "/editor/lines/3", "/about"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("expected 3 requests under pattern /*, got %v", got)
	}
}

func TestPrometheusMetrics_CapturesStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		write  bool
	}{
		{"explicit 400", http.StatusBadRequest, false},
		{"explicit 503", http.StatusServiceUnavailable, false},
		{"implicit 200 on write", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var seen *metricsResponseWriter
			handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
				seen = w.(*metricsResponseWriter)
				if tt.write {
					_, _ = w.Write([]byte("ok"))
					w.WriteHeader(http.StatusTeapot) // superfluous, ignored
					return
				}
				w.WriteHeader(tt.status)
			})

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/map", nil))

			if seen.statusCode != tt.status {
				t.Errorf("captured status = %d, want %d", seen.statusCode, tt.status)
			}
		})
	}
}

func TestPrometheusMetrics_Flushes(t *testing.T) {
	t.Parallel()

	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("wrapped writer must implement http.Flusher")
		}
		_, _ = w.Write([]byte("data: 1\n\n"))
		flusher.Flush()
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/chatkit", nil))

	if !rec.Flushed {
		t.Error("expected underlying recorder to be flushed")
	}
}
