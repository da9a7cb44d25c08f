// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/metromap/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(APISecurityHeaders())

	// Flat routes, not a subrouter, so other /api/health paths reach the
	// SPA fallback instead of chi's default 404.
	health := r.With(router.chiMiddleware.RateLimitHealth())
	health.Get("/api/health/live", router.handler.HealthLive)
	health.Get("/api/health/ready", router.handler.HealthReady)

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		// No compression: events must reach the client as they are flushed.
		r.Post("/chatkit", router.handler.ChatKit)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(middleware.Compression))
			r.Get("/map", router.handler.GetMap)
			r.Post("/map", router.handler.PostMap)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	// Static files and SPA fallback. Must be last: catches all unmatched GETs.
	r.Group(func(r chi.Router) {
		r.Use(chiMiddleware(middleware.Compression))
		if router.static.Enabled() {
			r.Get("/assets/*", router.static.Assets)
		}
		r.Get("/*", router.static.Index)
	})

	return r
}
