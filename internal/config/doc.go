// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

// Package config loads Metromap configuration with Koanf v2.
//
// Sources are layered, later layers overriding earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, config.yaml, /etc/metromap/config.yaml)
//  3. Environment variables mapped by envTransformFunc
//
// Only mapped environment variables are read; anything else in the process
// environment is ignored.
//
// # Example
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	fmt.Println(cfg.Server.Addr())
//
// # Sections
//
//   - server: listen address, HTTP timeouts, request body limit
//   - chatkit: conversational upstream URL, credentials, circuit breaker
//   - map: seed document and optional BadgerDB snapshots
//   - static: candidate directories for the pre-built frontend
//   - security: CORS origins and API rate limiting
//   - logging: zerolog level, format, caller info
package config
