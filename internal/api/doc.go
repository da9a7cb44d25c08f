// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

/*
Package api provides the HTTP layer for Metromap.

Routes:

	POST /chatkit            conversational proxy (SSE stream or JSON)
	GET  /map                current metro map, {"map": ...}
	POST /map                replace the metro map, {"map": ...}
	GET  /api/health/live    liveness
	GET  /api/health/ready   readiness with chatkit state and map revision
	GET  /metrics            Prometheus exposition
	GET  /assets/*           frontend build assets
	GET  /*                  index.html, or an informational JSON message

Error bodies are always {"detail": "<message>"}.

Middleware is layered with chi: request ID and logging context, real IP,
panic recovery, CORS and security headers apply globally; the /chatkit and
/map group adds IP rate limiting and Prometheus instrumentation. Gzip is applied
to /map and static responses and never to /chatkit, so event streams reach
the client unbuffered.

Usage:

	handler := api.NewHandler(store, provider, api.HandlerConfig{
	    DefaultMapID: cfg.ChatKit.DefaultMapID,
	    MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})
	site := api.NewStaticSite(api.ResolveStaticDir(cfg.Static.Dirs))
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security), site)
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
