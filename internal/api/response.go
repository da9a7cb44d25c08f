// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/metromap/internal/logging"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse is returned by the SPA fallback when no frontend build
// is present.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondJSON marshals data and writes it with status.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Internal server error"}`))
		return
	}
	respondRawJSON(w, status, body)
}

// respondRawJSON writes pre-serialized JSON verbatim.
func respondRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondDetail writes {"detail": message}.
func respondDetail(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Detail: message})
}
