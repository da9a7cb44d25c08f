// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

// Router wires handlers, middleware and the static site into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	static        *StaticSite
}

// NewRouter creates a router. A nil mw uses the default middleware
// configuration and a nil site serves no frontend.
func NewRouter(handler *Handler, mw *ChiMiddleware, site *StaticSite) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	if site == nil {
		site = &StaticSite{}
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		static:        site,
	}
}
