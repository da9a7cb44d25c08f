// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// GCRunner matches snapshot.Store's value-log collection loop.
type GCRunner interface {
	RunGC(ctx context.Context, interval time.Duration) error
}

// SnapshotGCService periodically reclaims space in the snapshot database.
type SnapshotGCService struct {
	runner   GCRunner
	interval time.Duration
	name     string
}

// NewSnapshotGCService creates a GC service. interval defaults to 5m.
func NewSnapshotGCService(runner GCRunner, interval time.Duration) *SnapshotGCService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SnapshotGCService{
		runner:   runner,
		interval: interval,
		name:     "snapshot-gc",
	}
}

// Serve implements suture.Service.
func (s *SnapshotGCService) Serve(ctx context.Context) error {
	err := s.runner.RunGC(ctx, s.interval)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ctx.Err()
	}
	return fmt.Errorf("snapshot gc: %w", err)
}

// String implements fmt.Stringer.
func (s *SnapshotGCService) String() string {
	return s.name
}
