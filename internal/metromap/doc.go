// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

// Package metromap holds the metro map document and the in-memory store
// that serves it.
//
// A MetroMap is a set of stations placed on a 2D canvas, lines that visit
// those stations in order, and optional walking or transfer connections
// between stations. The whole document is replaced at once; there are no
// partial updates.
//
// # Validation
//
// Validate applies two layers of rules:
//
//   - Field rules (struct tags, checked with the validation package): ids are
//     slugs, names are bounded, colours are hex, every line has two or more stops.
//   - Document rules: station and line ids are unique, every stop and
//     connection endpoint names an existing station, a line never lists the
//     same stop twice in a row, and a connection never joins a station to itself.
//
// Failures are returned as *ValidationError, which matches ErrInvalidMap
// under errors.Is.
//
// # Store
//
// Store keeps the current map behind a sync.RWMutex. SetMap validates a
// private copy before taking the write lock, so a rejected document never
// touches the stored one and readers never observe a half-applied update.
// Each successful replacement increments the revision and is announced to
// an optional Publisher.
//
//	store, err := metromap.NewStore(metromap.Default())
//	saved, err := store.SetMap(ctx, submitted)
//	current := store.DumpForClient()
package metromap
