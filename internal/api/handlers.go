// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/metromap/internal/chatkit"
	"github.com/tomtom215/metromap/internal/metromap"
)

// DefaultMaxBodyBytes caps request bodies when HandlerConfig leaves it unset.
const DefaultMaxBodyBytes = 10 << 20

// HandlerConfig carries the request-level settings handlers need.
type HandlerConfig struct {
	// DefaultMapID is used for /chatkit requests without a map-id header.
	DefaultMapID string

	// MaxBodyBytes caps /chatkit and /map request bodies.
	MaxBodyBytes int64
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_chatkit.go: conversational proxy
//   - handlers_map.go: map read and replace
//   - handlers_health.go: liveness and readiness
type Handler struct {
	store     *metromap.Store
	chatkit   chatkit.Provider
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a handler. provider may be chatkit.Unavailable; the
// map endpoints work either way.
func NewHandler(store *metromap.Store, provider chatkit.Provider, cfg HandlerConfig) *Handler {
	if cfg.DefaultMapID == "" {
		cfg.DefaultMapID = chatkit.DefaultMapID
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		store:     store,
		chatkit:   provider,
		config:    cfg,
		startTime: time.Now(),
	}
}

// readBody reads the whole request body within the configured limit. On
// failure it writes the error response and returns ok=false.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondDetail(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		} else {
			respondDetail(w, http.StatusBadRequest, msgBodyUnreadable)
		}
		return nil, false
	}
	return body, true
}
