// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package events

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/metromap/internal/metromap"
)

// TopicMapReplaced is the topic carrying metromap.MapReplaced events.
const TopicMapReplaced = "metromap.replaced"

var errEmptyEvent = errors.New("map replaced event has no map")

// EncodeMapReplaced converts an event to JSON bytes.
func EncodeMapReplaced(evt *metromap.MapReplaced) ([]byte, error) {
	if evt.Map == nil {
		return nil, errEmptyEvent
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal map replaced event: %w", err)
	}
	return data, nil
}

// DecodeMapReplaced converts JSON bytes to an event.
func DecodeMapReplaced(data []byte) (*metromap.MapReplaced, error) {
	var evt metromap.MapReplaced
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("unmarshal map replaced event: %w", err)
	}
	if evt.Map == nil {
		return nil, errEmptyEvent
	}
	return &evt, nil
}
