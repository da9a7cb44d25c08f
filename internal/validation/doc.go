// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator and translates field
// errors into short human-readable messages. Field paths are reported using
// JSON names, so a bad line colour reads "lines[2].color must be a hex colour
// such as #d52b1e" rather than a Go struct path.
//
// # Custom Tags
//
//   - slug: lowercase letters, digits, '-' and '_', starting with a letter or digit
//
// # Quick Start
//
//	type Station struct {
//	    ID   string `json:"id" validate:"required,slug,max=64"`
//	    Name string `json:"name" validate:"required,max=120"`
//	}
//
//	if err := validation.ValidateStruct(&s); err != nil {
//	    return fmt.Errorf("%w: %s", metromap.ErrInvalidMap, err.Error())
//	}
package validation
