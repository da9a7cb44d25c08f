// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

// Package logging provides centralized zerolog-based structured logging for Metromap.
//
// All components log through a single global zerolog logger configured at
// startup. JSON output is the default; console output is available for local
// development.
//
// # Overview
//
// The package provides:
//   - The global logger and level helpers (Info, Warn, Error, ...)
//   - Context-aware logging with request and correlation ID propagation
//   - An slog adapter so sutureslog reports supervisor events through zerolog
//   - A watermill.LoggerAdapter so the map event bus logs through zerolog
//   - Helpers that mask secrets before they reach log output
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Map update rejected")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send(), and prefer structured
// fields over formatted messages:
//
//	logging.Info().Int("stations", n).Msg("Map replaced")  // Correct
//	logging.Info().Msgf("Map replaced with %d stations", n) // Avoid
//
// Never log the conversational upstream API key; pass it through
// SanitizeToken first.
package logging
