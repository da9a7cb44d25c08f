// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/metromap/internal/logging"
	"github.com/tomtom215/metromap/internal/metromap"
)

// MapEnvelope is the request and response body of the /map endpoints.
type MapEnvelope struct {
	Map *metromap.MetroMap `json:"map"`
}

// GetMap returns the current map.
func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MapEnvelope{Map: h.store.DumpForClient()})
}

// PostMap replaces the map with the submitted document. Validation failures
// answer 400 with the validation message and leave the stored map intact.
func (h *Handler) PostMap(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	env, err := decodeMapEnvelope(body)
	if err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	stored, err := h.store.SetMap(r.Context(), env.Map)
	if err != nil {
		if errors.Is(err, metromap.ErrInvalidMap) {
			logging.Ctx(r.Context()).Info().Err(err).Msg("Rejected invalid metro map")
			respondDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to store metro map")
		respondDetail(w, http.StatusInternalServerError, "Failed to store map.")
		return
	}

	respondJSON(w, http.StatusOK, MapEnvelope{Map: stored})
}

func decodeMapEnvelope(body []byte) (*MapEnvelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrMalformedBody
	}

	var env MapEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, ErrMalformedBody
	}
	if env.Map == nil {
		return nil, ErrMissingMap
	}
	return &env, nil
}
