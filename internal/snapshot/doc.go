// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

// Package snapshot persists accepted metro maps to BadgerDB so the editor
// survives restarts.
//
// Keys:
//
//	metromap:current       latest Snapshot (JSON)
//	metromap:rev:<n>       Snapshot for revision n, zero padded to 20 digits
//
// A Writer consumes metromap.replaced events from the event bus and saves
// each one; the server seeds its store from Load at startup.
package snapshot
