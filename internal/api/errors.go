// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

import "errors"

// Request decoding errors.
var (
	// ErrMissingMap indicates a map write without a "map" field.
	ErrMissingMap = errors.New(`request body must contain a "map" object`)

	// ErrMalformedBody indicates a body that is not a JSON object.
	ErrMalformedBody = errors.New("request body is not valid JSON")
)

// Client-facing messages for conversational failures.
const (
	msgCircuitOpen    = "ChatKit upstream is temporarily unavailable. Try again shortly."
	msgUpstreamFailed = "ChatKit upstream request failed."
	msgBodyTooLarge   = "Request body too large."
	msgBodyUnreadable = "Request body could not be read."
)
