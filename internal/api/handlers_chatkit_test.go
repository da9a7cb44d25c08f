// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/metromap/internal/chatkit"
)

func TestChatKit_Unavailable(t *testing.T) {
	env := newTestEnv(t, chatkit.Unavailable(""), "")

	rec := env.do(http.MethodPost, "/chatkit", `{"type":"threads.create"}`, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if got := decodeDetail(t, rec); got != chatkit.UnavailableMessage {
		t.Errorf("detail = %q", got)
	}
}

func TestChatKit_MapIDThreaded(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "header present", header: "harbour-line", want: "harbour-line"},
		{name: "header absent", want: "solstice-metro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				gotMapID   string
				gotPayload string
				calls      atomic.Int32
			)
			srv := chatkit.ServerFunc(func(_ context.Context, payload []byte, rc chatkit.RequestContext) (any, error) {
				calls.Add(1)
				gotMapID = rc.MapID
				gotPayload = string(payload)
				return map[string]string{"ok": "yes"}, nil
			})
			env := newTestEnv(t, chatkit.Available(srv), "")

			headers := map[string]string{}
			if tt.header != "" {
				headers["map-id"] = tt.header
			}
			rec := env.do(http.MethodPost, "/chatkit", `{"q":1}`, headers)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
			}
			if calls.Load() != 1 {
				t.Fatalf("Process called %d times", calls.Load())
			}
			if gotMapID != tt.want {
				t.Errorf("MapID = %q, want %q", gotMapID, tt.want)
			}
			if gotPayload != `{"q":1}` {
				t.Errorf("payload = %q", gotPayload)
			}
		})
	}
}

func TestChatKit_ResultShapes(t *testing.T) {
	tests := []struct {
		name     string
		result   any
		wantType string
		wantBody string
	}{
		{
			name:     "raw json verbatim",
			result:   chatkit.JSONResult(`{"thread": {"id": "t1"}}`),
			wantType: "application/json",
			wantBody: `{"thread": {"id": "t1"}}`,
		},
		{
			name:     "generic value",
			result:   map[string]int{"count": 2},
			wantType: "application/json",
			wantBody: `{"count":2}`,
		},
		{
			name:     "upstream response",
			result:   chatkit.UpstreamResponse{Status: 200, ContentType: "text/plain", Body: "hi"},
			wantType: "application/json",
			wantBody: `{"status":200,"content_type":"text/plain","body":"hi"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatkit.ServerFunc(func(context.Context, []byte, chatkit.RequestContext) (any, error) {
				return tt.result, nil
			})
			env := newTestEnv(t, chatkit.Available(srv), "")
			rec := env.do(http.MethodPost, "/chatkit", "{}", nil)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
		})
	}
}

func TestChatKit_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "circuit open", err: fmt.Errorf("%w: open", chatkit.ErrCircuitOpen), want: http.StatusServiceUnavailable},
		{name: "upstream status", err: &chatkit.UpstreamStatusError{StatusCode: 500}, want: http.StatusBadGateway},
		{name: "transport", err: errors.New("connection refused"), want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatkit.ServerFunc(func(context.Context, []byte, chatkit.RequestContext) (any, error) {
				return nil, tt.err
			})
			env := newTestEnv(t, chatkit.Available(srv), "")
			rec := env.do(http.MethodPost, "/chatkit", "{}", nil)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if decodeDetail(t, rec) == "" {
				t.Error("empty detail")
			}
		})
	}
}

func TestChatKit_BodyTooLarge(t *testing.T) {
	var calls atomic.Int32
	srv := chatkit.ServerFunc(func(context.Context, []byte, chatkit.RequestContext) (any, error) {
		calls.Add(1)
		return nil, nil
	})
	env := newTestEnv(t, chatkit.Available(srv), "")

	rec := env.do(http.MethodPost, "/chatkit", strings.Repeat("x", 65<<10), nil)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if calls.Load() != 0 {
		t.Error("Process called for oversized body")
	}
}

// TestChatKit_StreamFlushesPerEvent reads the first event off the wire
// before the server has produced the second one.
func TestChatKit_StreamFlushesPerEvent(t *testing.T) {
	chunks := make(chan []byte)
	srv := chatkit.ServerFunc(func(context.Context, []byte, chatkit.RequestContext) (any, error) {
		return chatkit.NewChannelStream(chunks), nil
	})
	env := newTestEnv(t, chatkit.Available(srv), "")

	ts := httptest.NewServer(env.router)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/chatkit", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	type response struct {
		resp *http.Response
		err  error
	}
	respCh := make(chan response, 1)
	go func() {
		resp, err := ts.Client().Do(req)
		respCh <- response{resp, err}
	}()

	chunks <- []byte("data: {\"type\":\"thread.created\"}\n\n")

	var resp *http.Response
	select {
	case r := <-respCh:
		if r.err != nil {
			t.Fatalf("request error = %v", r.err)
		}
		resp = r.resp
	case <-time.After(5 * time.Second):
		t.Fatal("response headers never arrived")
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if ce := resp.Header.Get("Content-Encoding"); ce != "" {
		t.Errorf("stream was encoded with %q", ce)
	}

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		var sb strings.Builder
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read event: %v", err)
			}
			sb.WriteString(line)
			if line == "\n" {
				return sb.String()
			}
		}
	}

	done := make(chan string, 1)
	go func() { done <- readEvent() }()
	select {
	case ev := <-done:
		if ev != "data: {\"type\":\"thread.created\"}\n\n" {
			t.Errorf("first event = %q", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first event was buffered")
	}

	chunks <- []byte("data: second\n\n")
	if ev := readEvent(); ev != "data: second\n\n" {
		t.Errorf("second event = %q", ev)
	}
	close(chunks)
}
