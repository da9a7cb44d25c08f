// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package metromap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/metromap/internal/logging"
	"github.com/tomtom215/metromap/internal/metrics"
)

// MapReplaced announces a successful SetMap. Map is a private copy owned
// by the receiver.
type MapReplaced struct {
	Revision   uint64    `json:"revision"`
	MapID      string    `json:"map_id"`
	Map        *MetroMap `json:"map"`
	ReplacedAt time.Time `json:"replaced_at"`
}

// Publisher receives replacement events. Publishing happens after the
// write lock is released, so concurrent writers may deliver events out of
// revision order; receivers compare Revision.
type Publisher interface {
	PublishMapReplaced(ctx context.Context, evt MapReplaced) error
}

// Option configures a Store.
type Option func(*Store)

// WithPublisher attaches a replacement event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithRevision starts the revision counter at rev, used when the initial
// map is restored from a snapshot.
func WithRevision(rev uint64) Option {
	return func(s *Store) { s.revision = rev }
}

// Store is the process-wide holder of the current metro map.
type Store struct {
	mu        sync.RWMutex
	current   *MetroMap
	revision  uint64
	updatedAt time.Time

	publisher Publisher
	logger    zerolog.Logger
}

// NewStore creates a store seeded with initial, which must be valid.
func NewStore(initial *MetroMap, opts ...Option) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("seed map: %w", err)
	}

	s := &Store{
		current:   initial.Clone(),
		updatedAt: time.Now().UTC(),
		logger:    logging.WithComponent("metromap"),
	}
	for _, opt := range opts {
		opt(s)
	}

	sum := s.current.Summarize()
	metrics.SetMapGauges(s.revision, sum.Stations, sum.Lines)
	return s, nil
}

// SetPublisher attaches a publisher after construction. The event bus is
// started after the store exists, so main wires it here.
func (s *Store) SetPublisher(p Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
}

// SetMap validates m and, if valid, replaces the current map with a copy
// of it. On error the stored map is unchanged. The returned map is a copy
// of what was stored.
func (s *Store) SetMap(ctx context.Context, m *MetroMap) (*MetroMap, error) {
	if err := m.Validate(); err != nil {
		metrics.RecordMapWrite(false, 0, 0, 0)
		return nil, err
	}

	next := m.Clone()
	now := time.Now().UTC()

	sum := next.Summarize()

	s.mu.Lock()
	s.current = next
	s.revision++
	rev := s.revision
	s.updatedAt = now
	publisher := s.publisher
	// Gauges are set under the lock so metromap_revision never goes backwards.
	metrics.RecordMapWrite(true, rev, sum.Stations, sum.Lines)
	s.mu.Unlock()

	logging.Ctx(ctx).Info().
		Str("component", "metromap").
		Uint64("revision", rev).
		Str("map", sum.ID).
		Int("stations", sum.Stations).
		Int("lines", sum.Lines).
		Msg("Metro map replaced")

	if publisher != nil {
		evt := MapReplaced{Revision: rev, MapID: sum.ID, Map: next.Clone(), ReplacedAt: now}
		if err := publisher.PublishMapReplaced(ctx, evt); err != nil {
			s.logger.Warn().Err(err).Uint64("revision", rev).Msg("Failed to publish map replacement")
		}
	}

	return next.Clone(), nil
}

// DumpForClient returns a deep copy of the current map for serialization.
func (s *Store) DumpForClient() *MetroMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Revision returns the number of successful replacements, offset by any
// WithRevision starting point.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Status describes the stored map without copying it.
type Status struct {
	Revision  uint64    `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
	Summary
}

// Status returns the current revision and map summary.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Revision:  s.revision,
		UpdatedAt: s.updatedAt,
		Summary:   s.current.Summarize(),
	}
}
