// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package chatkit

import (
	"context"
	"io"
	"sync"
)

// RawJSON is implemented by results that already hold a serialized JSON
// document. Handlers write JSON() verbatim.
type RawJSON interface {
	JSON() []byte
}

// JSONResult is a pre-serialized JSON payload.
type JSONResult []byte

// JSON returns the payload bytes.
func (r JSONResult) JSON() []byte { return r }

// UpstreamResponse carries an upstream reply that was neither a stream
// nor JSON. It is serialized generically.
type UpstreamResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// StreamingResult is a sequence of server-sent event chunks. Next returns
// io.EOF after the last chunk. Close must be called once the consumer is
// done, whether or not the stream was drained.
type StreamingResult struct {
	next      func(ctx context.Context) ([]byte, error)
	close     func() error
	closeOnce sync.Once
	closeErr  error
}

// NewSSEStream parses server-sent events from body as they arrive. Each
// chunk is one complete event including its terminating blank line.
func NewSSEStream(body io.ReadCloser) *StreamingResult {
	r := newEventReader(body, maxEventBytes)
	return &StreamingResult{
		next: func(ctx context.Context) ([]byte, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return r.next()
		},
		close: body.Close,
	}
}

// NewChannelStream relays chunks sent on ch until it is closed. It lets an
// in-process Server produce a stream without an HTTP body.
func NewChannelStream(ch <-chan []byte) *StreamingResult {
	return &StreamingResult{
		next: func(ctx context.Context) ([]byte, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case chunk, ok := <-ch:
				if !ok {
					return nil, io.EOF
				}
				return chunk, nil
			}
		},
		close: func() error { return nil },
	}
}

// Next blocks until the next chunk is available.
func (s *StreamingResult) Next(ctx context.Context) ([]byte, error) {
	return s.next(ctx)
}

// Close releases the underlying source. It is safe to call more than once.
func (s *StreamingResult) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.close()
	})
	return s.closeErr
}

