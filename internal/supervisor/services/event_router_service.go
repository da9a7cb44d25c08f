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

// EventRouter matches the events.Router lifecycle.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// RouterFactory builds a router with its handlers registered. A router
// cannot run again once it has stopped, so every restart builds a new one.
type RouterFactory func() (EventRouter, error)

// EventRouterService runs the map event router under supervision.
//
// Events published while the router is restarting are not delivered to
// the replacement; the snapshot writer catches up on the next revision.
type EventRouterService struct {
	build        RouterFactory
	closeTimeout time.Duration
	name         string
}

// NewEventRouterService creates a router service. closeTimeout bounds the
// wait for in-flight handlers on shutdown.
func NewEventRouterService(build RouterFactory, closeTimeout time.Duration) *EventRouterService {
	if closeTimeout <= 0 {
		closeTimeout = 10 * time.Second
	}
	return &EventRouterService{
		build:        build,
		closeTimeout: closeTimeout,
		name:         "event-router",
	}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.build()
	if err != nil {
		return fmt.Errorf("event router build failed: %w", err)
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- router.Run(ctx)
	}()

	select {
	case err := <-runErr:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			err = errors.New("stopped unexpectedly")
		}
		return fmt.Errorf("event router: %w", err)

	case <-ctx.Done():
		closed := make(chan error, 1)
		go func() { closed <- router.Close() }()

		select {
		case <-closed:
		case <-time.After(s.closeTimeout):
			return fmt.Errorf("event router close timed out after %v", s.closeTimeout)
		}
		<-runErr
		return ctx.Err()
	}
}

// String implements fmt.Stringer.
func (s *EventRouterService) String() string {
	return s.name
}
