// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/metromap/internal/metromap"
)

// ErrBusClosed is returned when publishing after Close.
var ErrBusClosed = errors.New("event bus is closed")

// BusConfig configures the in-process bus.
type BusConfig struct {
	// OutputChannelBuffer is the per-subscriber buffer size.
	// Default: 64
	OutputChannelBuffer int64
}

// DefaultBusConfig returns defaults suited to a single map writer.
func DefaultBusConfig() BusConfig {
	return BusConfig{OutputChannelBuffer: 64}
}

// Bus is an in-process publisher/subscriber for map events. It satisfies
// metromap.Publisher.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

var _ metromap.Publisher = (*Bus)(nil)

// NewBus creates a GoChannel-backed bus.
func NewBus(cfg BusConfig, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}
	if cfg.OutputChannelBuffer <= 0 {
		cfg.OutputChannelBuffer = DefaultBusConfig().OutputChannelBuffer
	}

	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.OutputChannelBuffer,
		}, logger),
		logger: logger,
	}
}

// Publish sends a raw message to topic.
func (b *Bus) Publish(ctx context.Context, topic string, msg *message.Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	msg.SetContext(ctx)
	return b.pubsub.Publish(topic, msg)
}

// PublishMapReplaced serializes and publishes a map replacement.
func (b *Bus) PublishMapReplaced(ctx context.Context, evt metromap.MapReplaced) error {
	data, err := EncodeMapReplaced(&evt)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("revision", strconv.FormatUint(evt.Revision, 10))
	msg.Metadata.Set("map_id", evt.MapID)

	return b.Publish(ctx, TopicMapReplaced, msg)
}

// Subscriber exposes the bus as a Watermill subscriber for routers.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close stops delivery to all subscribers. It is safe to call twice.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}
