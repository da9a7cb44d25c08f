// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package metromap

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

//go:embed default_map.json
var defaultMapJSON []byte

// Default returns the built-in "solstice-metro" map served when no seed
// file or snapshot is configured.
func Default() *MetroMap {
	m, err := Decode(bytes.NewReader(defaultMapJSON))
	if err != nil {
		panic(fmt.Sprintf("embedded default map: %v", err))
	}
	return m
}

// Decode reads a single MetroMap JSON document. Structural validity is
// not checked; call Validate.
func Decode(r io.Reader) (*MetroMap, error) {
	var m MetroMap
	dec := json.NewDecoder(r)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode metro map: %w", err)
	}
	return &m, nil
}

// LoadFile reads and validates a MetroMap JSON file.
func LoadFile(path string) (*MetroMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map file: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
