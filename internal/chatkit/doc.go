// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

/*
Package chatkit connects the /chatkit endpoint to a conversational server.

A Server turns a raw request payload plus a RequestContext into one of
three result shapes:

  - *StreamingResult: server-sent events, relayed chunk by chunk
  - RawJSON: a pre-serialized JSON document, written verbatim
  - anything else: serialized generically as JSON

The server is optional. A Provider is built once at startup and is either
Available (holding a Server) or Unavailable (holding the message returned
to clients with 503). Handlers check the provider before every call and
never touch a nil server.

# Upstream Server

UpstreamServer is the production Server. It POSTs the payload to a
ChatKit-compatible HTTP endpoint, forwarding the map-id header, the request
ID and a bearer token, and maps the upstream content type to a result
shape:

	text/event-stream  -> *StreamingResult (events parsed incrementally)
	application/json   -> JSONResult
	other              -> UpstreamResponse

Calls run through a sony/gobreaker circuit breaker. Transport errors and
5xx responses count as failures; 4xx responses and client cancellations do
not. While the breaker is open Process fails fast with ErrCircuitOpen.

# Usage

	provider := chatkit.NewProvider(cfg.ChatKit)
	srv, err := provider.Server()
	if errors.Is(err, chatkit.ErrUnavailable) {
	    // 503
	}
	result, err := srv.Process(ctx, payload, chatkit.NewRequestContext(r, cfg.ChatKit.DefaultMapID))
*/
package chatkit
