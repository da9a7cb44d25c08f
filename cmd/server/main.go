// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

// Package main is the entry point for the Metromap server.
//
// Metromap serves a single editable metro map over HTTP, proxies
// conversational requests that edit it to an upstream ChatKit server, and
// hosts the pre-built editor frontend.
//
// # Startup
//
//  1. Configuration: koanf v2 (defaults, optional config.yaml, environment)
//  2. Logging: zerolog, bridged to slog for suture and to watermill
//  3. Map store: seeded from map.seed_path, the latest snapshot, or the
//     built-in solstice-metro map
//  4. Event bus: watermill GoChannel carrying map replacements
//  5. Snapshots (optional): badger database fed by the event router
//  6. ChatKit provider: upstream client behind a circuit breaker, or
//     unavailable when chatkit.upstream_url is empty
//  7. HTTP server under a suture supervisor tree
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server stops
// accepting connections and waits up to server.shutdown_timeout for
// in-flight requests; the event router drains; the snapshot database is
// closed last.
//
// # Example Usage
//
//	export CHATKIT_UPSTREAM_URL=http://localhost:8001/chatkit
//	export STATIC_DIRS=./frontend/dist
//	./metromap
//
//	./metromap check-map ./maps/harbour.json
package main

import (
	"os"

	"github.com/tomtom215/metromap/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Error().Err(err).Msg("metromap exited with error")
		os.Exit(1)
	}
}
