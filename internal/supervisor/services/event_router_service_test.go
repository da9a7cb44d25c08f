// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/metromap/internal/events"
)

// fakeRouter runs until Close or ctx cancel, or fails immediately with runErr.
type fakeRouter struct {
	runErr error
	closed atomic.Int32
	stop   chan struct{}
}

func newFakeRouter() *fakeRouter {
	return &fakeRouter{stop: make(chan struct{})}
}

func (f *fakeRouter) Run(ctx context.Context) error {
	if f.runErr != nil {
		return f.runErr
	}
	select {
	case <-ctx.Done():
	case <-f.stop:
	}
	return nil
}

func (f *fakeRouter) Close() error {
	if f.closed.Add(1) == 1 {
		close(f.stop)
	}
	return nil
}

func TestEventRouterService_BuildFailure(t *testing.T) {
	buildErr := errors.New("subscriber closed")
	svc := NewEventRouterService(func() (EventRouter, error) { return nil, buildErr }, time.Second)

	if err := svc.Serve(context.Background()); !errors.Is(err, buildErr) {
		t.Errorf("Serve() = %v, want build error", err)
	}
}

func TestEventRouterService_RunFailure(t *testing.T) {
	runErr := errors.New("handler registration failed")
	router := newFakeRouter()
	router.runErr = runErr
	svc := NewEventRouterService(func() (EventRouter, error) { return router, nil }, time.Second)

	if err := svc.Serve(context.Background()); !errors.Is(err, runErr) {
		t.Errorf("Serve() = %v, want run error", err)
	}
}

func TestEventRouterService_CancelClosesRouter(t *testing.T) {
	router := newFakeRouter()
	var builds atomic.Int32
	svc := NewEventRouterService(func() (EventRouter, error) {
		builds.Add(1)
		return router, nil
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if router.closed.Load() != 1 {
		t.Errorf("Close called %d times", router.closed.Load())
	}
	if builds.Load() != 1 {
		t.Errorf("factory called %d times", builds.Load())
	}
}

// TestEventRouterService_DeliversEvents runs a real events.Router over the
// in-process bus.
func TestEventRouterService_DeliversEvents(t *testing.T) {
	bus := events.NewBus(events.DefaultBusConfig(), watermill.NopLogger{})
	defer func() { _ = bus.Close() }()

	received := make(chan string, 1)
	started := make(chan struct{})
	svc := NewEventRouterService(func() (EventRouter, error) {
		r, err := events.NewRouter(nil, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}
		r.AddConsumerHandler("test", "heartbeat", bus.Subscriber(), func(msg *message.Message) error {
			received <- string(msg.Payload)
			return nil
		})
		go func() {
			<-r.Running()
			close(started)
		}()
		return r, nil
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("router did not start")
	}

	if err := bus.Publish(ctx, "heartbeat", message.NewMessage(watermill.NewUUID(), []byte("hello"))); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-received:
		if got != "hello" {
			t.Errorf("payload = %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
}
