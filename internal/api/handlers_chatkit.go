// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/metromap/internal/chatkit"
	"github.com/tomtom215/metromap/internal/logging"
	"github.com/tomtom215/metromap/internal/metrics"
)

// ChatKit proxies a conversational request.
//
// The provider is checked first; when no server exists the response is
// 503 and Process is never called. Results are written according to their
// shape: streams as text/event-stream flushed per event, RawJSON verbatim,
// anything else through the JSON encoder.
func (h *Handler) ChatKit(w http.ResponseWriter, r *http.Request) {
	srv, err := h.chatkit.Server()
	if err != nil {
		metrics.RecordChatKitRequest("unavailable")
		respondDetail(w, http.StatusServiceUnavailable, h.chatkit.Reason())
		return
	}

	payload, ok := h.readBody(w, r)
	if !ok {
		metrics.RecordChatKitRequest("bad_request")
		return
	}

	rc := chatkit.NewRequestContext(r, h.config.DefaultMapID)
	ctx := logging.ContextWithMapID(r.Context(), rc.MapID)

	result, err := srv.Process(ctx, payload, rc)
	if err != nil {
		h.chatKitError(ctx, w, err)
		return
	}

	switch res := result.(type) {
	case *chatkit.StreamingResult:
		metrics.RecordChatKitRequest("stream")
		h.relayStream(ctx, w, res)
	case chatkit.RawJSON:
		metrics.RecordChatKitRequest("json")
		respondRawJSON(w, http.StatusOK, res.JSON())
	default:
		metrics.RecordChatKitRequest("generic")
		respondJSON(w, http.StatusOK, res)
	}
}

func (h *Handler) chatKitError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logging.Ctx(ctx)

	switch {
	case ctx.Err() != nil:
		// Client went away; nobody is left to answer.
		metrics.RecordChatKitRequest("canceled")
		log.Debug().Err(err).Msg("ChatKit request canceled by client")
	case errors.Is(err, chatkit.ErrUnavailable):
		metrics.RecordChatKitRequest("unavailable")
		respondDetail(w, http.StatusServiceUnavailable, h.chatkit.Reason())
	case errors.Is(err, chatkit.ErrCircuitOpen):
		metrics.RecordChatKitRequest("circuit_open")
		log.Warn().Err(err).Msg("ChatKit upstream circuit open")
		respondDetail(w, http.StatusServiceUnavailable, msgCircuitOpen)
	default:
		metrics.RecordChatKitRequest("error")
		log.Error().Err(err).Msg("ChatKit request failed")
		respondDetail(w, http.StatusBadGateway, msgUpstreamFailed)
	}
}

// relayStream copies events to the client as they arrive. The loop ends
// when the stream is exhausted, the client disconnects, or a write fails.
func (h *Handler) relayStream(ctx context.Context, w http.ResponseWriter, stream *chatkit.StreamingResult) {
	defer func() { _ = stream.Close() }()

	rc := http.NewResponseController(w)
	// Streams may outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_ = rc.Flush()

	log := logging.Ctx(ctx)
	start := time.Now()
	events := 0
	defer func() {
		metrics.RecordStreamDuration(time.Since(start))
		log.Debug().Int("events", events).Dur("duration", time.Since(start)).Msg("ChatKit stream closed")
	}()

	for {
		chunk, err := stream.Next(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				log.Warn().Err(err).Int("events", events).Msg("ChatKit stream ended with error")
			}
			return
		}
		if _, err := w.Write(chunk); err != nil {
			log.Debug().Err(err).Msg("Client write failed; stopping stream")
			return
		}
		if err := rc.Flush(); err != nil {
			log.Debug().Err(err).Msg("Flush failed; stopping stream")
			return
		}
		events++
		metrics.RecordStreamEvent()
	}
}
