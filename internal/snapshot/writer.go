// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package snapshot

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/metromap/internal/events"
	"github.com/tomtom215/metromap/internal/logging"
	"github.com/tomtom215/metromap/internal/metrics"
)

// DefaultRetain is how many revision entries Writer keeps after each save.
const DefaultRetain = 50

// Writer saves map replacement events to a Store. Events may arrive out
// of revision order; anything not newer than the last saved revision is
// skipped so the current snapshot never regresses.
type Writer struct {
	store  *Store
	retain int
	logger zerolog.Logger

	mu   sync.Mutex
	last uint64
}

// NewWriter creates a writer. startRevision is the revision the store was
// seeded with; events at or below it are ignored.
func NewWriter(store *Store, startRevision uint64, retain int) *Writer {
	if retain <= 0 {
		retain = DefaultRetain
	}
	return &Writer{
		store:  store,
		retain: retain,
		last:   startRevision,
		logger: logging.WithComponent("snapshot"),
	}
}

// Handle implements message.NoPublishHandlerFunc. Returning an error
// makes the router retry the message.
func (w *Writer) Handle(msg *message.Message) error {
	evt, err := events.DecodeMapReplaced(msg.Payload)
	if err != nil {
		// Undecodable payloads will never succeed; drop them.
		w.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("Discarding malformed map event")
		return nil
	}

	ctx := msg.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if evt.Revision <= w.last {
		w.logger.Debug().
			Uint64("revision", evt.Revision).
			Uint64("last_saved", w.last).
			Msg("Skipping stale map event")
		return nil
	}

	snap := &Snapshot{Revision: evt.Revision, SavedAt: evt.ReplacedAt, Map: evt.Map}
	err = w.store.Save(ctx, snap)
	metrics.RecordSnapshotWrite(err)
	if err != nil {
		return fmt.Errorf("save revision %d: %w", evt.Revision, err)
	}
	w.last = evt.Revision

	if pruned, err := w.store.Prune(ctx, w.retain); err != nil {
		w.logger.Warn().Err(err).Msg("Failed to prune old snapshots")
	} else if pruned > 0 {
		w.logger.Debug().Int("pruned", pruned).Msg("Pruned old snapshots")
	}

	w.logger.Info().
		Uint64("revision", evt.Revision).
		Str("map", evt.MapID).
		Msg("Saved map snapshot")
	return nil
}

// LastSaved returns the newest revision written.
func (w *Writer) LastSaved() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}
