// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package chatkit

import "net/http"

// MapIDHeader names the request header selecting the map a conversation
// operates on.
const MapIDHeader = "map-id"

// DefaultMapID is used when a request carries no map-id header.
const DefaultMapID = "solstice-metro"

// RequestContext is the per-request value handed to Server.Process.
type RequestContext struct {
	Request *http.Request
	MapID   string
}

// NewRequestContext resolves the map ID for r. The header value is used
// unchanged when present and non-empty; otherwise defaultMapID, or
// DefaultMapID when that is empty too.
func NewRequestContext(r *http.Request, defaultMapID string) RequestContext {
	if defaultMapID == "" {
		defaultMapID = DefaultMapID
	}
	mapID := defaultMapID
	if r != nil {
		if v := r.Header.Get(MapIDHeader); v != "" {
			mapID = v
		}
	}
	return RequestContext{Request: r, MapID: mapID}
}
