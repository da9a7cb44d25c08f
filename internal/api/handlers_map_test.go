// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/tomtom215/metromap/internal/chatkit"
)

const twoStationMap = `{"map": {
	"id": "harbour",
	"name": "Harbour Loop",
	"stations": [
		{"id": "quay", "name": "Quay", "x": 0, "y": 0},
		{"id": "pier", "name": "Pier", "x": 100, "y": 0}
	],
	"lines": [
		{"id": "loop", "name": "Loop", "color": "#00aa88", "stations": ["quay", "pier"]}
	],
	"connections": []
}}`

func decodeEnvelope(t *testing.T, body []byte) MapEnvelope {
	t.Helper()
	var env MapEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("body %q is not a map envelope: %v", body, err)
	}
	if env.Map == nil {
		t.Fatalf("body %q has no map", body)
	}
	return env
}

func TestGetMap_Default(t *testing.T) {
	env := newTestEnv(t, chatkit.Unavailable(""), "")

	rec := env.do(http.MethodGet, "/map", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decodeEnvelope(t, rec.Body.Bytes())
	if got.Map.ID != "solstice-metro" {
		t.Errorf("map id = %q", got.Map.ID)
	}
	if len(got.Map.Stations) != 10 || len(got.Map.Lines) != 3 {
		t.Errorf("stations=%d lines=%d", len(got.Map.Stations), len(got.Map.Lines))
	}
}

func TestPostMap_ReplacesAndEchoes(t *testing.T) {
	env := newTestEnv(t, chatkit.Unavailable(""), "")
	before := env.store.Revision()

	rec := env.do(http.MethodPost, "/map", twoStationMap, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	echoed := decodeEnvelope(t, rec.Body.Bytes())
	if echoed.Map.ID != "harbour" || len(echoed.Map.Stations) != 2 {
		t.Errorf("echoed map = %+v", echoed.Map)
	}

	if env.store.Revision() != before+1 {
		t.Errorf("revision = %d, want %d", env.store.Revision(), before+1)
	}

	rec = env.do(http.MethodGet, "/map", "", nil)
	got := decodeEnvelope(t, rec.Body.Bytes())
	if got.Map.Name != "Harbour Loop" {
		t.Errorf("GET after POST name = %q", got.Map.Name)
	}
}

func TestPostMap_InvalidLeavesMapIntact(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{
			name:       "unknown station on line",
			body:       `{"map": {"id": "x", "name": "X", "stations": [{"id": "a", "name": "A"}], "lines": [{"id": "l", "name": "L", "color": "#000000", "stations": ["a", "ghost"]}]}}`,
			wantDetail: "ghost",
		},
		{
			name:       "missing name",
			body:       `{"map": {"id": "x", "stations": []}}`,
			wantDetail: "name",
		},
		{
			name:       "bad colour",
			body:       `{"map": {"id": "x", "name": "X", "stations": [{"id": "a", "name": "A"}, {"id": "b", "name": "B"}], "lines": [{"id": "l", "name": "L", "color": "red", "stations": ["a", "b"]}]}}`,
			wantDetail: "color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, chatkit.Unavailable(""), "")
			before := env.store.Revision()

			rec := env.do(http.MethodPost, "/map", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if detail := decodeDetail(t, rec); !strings.Contains(detail, tt.wantDetail) {
				t.Errorf("detail %q does not mention %q", detail, tt.wantDetail)
			}

			if env.store.Revision() != before {
				t.Error("revision changed after rejected write")
			}
			if id := env.store.DumpForClient().ID; id != "solstice-metro" {
				t.Errorf("stored map id = %q after rejected write", id)
			}
		})
	}
}

func TestPostMap_Unprocessable(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "not json", body: "stations: 3"},
		{name: "json array", body: "[]"},
		{name: "truncated", body: `{"map": {"id": "x"`},
		{name: "missing map", body: `{"stations": []}`},
		{name: "null map", body: `{"map": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, chatkit.Unavailable(""), "")
			rec := env.do(http.MethodPost, "/map", tt.body, nil)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rec.Code)
			}
			if decodeDetail(t, rec) == "" {
				t.Error("empty detail")
			}
		})
	}
}

func TestGetMap_Gzip(t *testing.T) {
	env := newTestEnv(t, chatkit.Unavailable(""), "")

	rec := env.do(http.MethodGet, "/map", "", map[string]string{"Accept-Encoding": "gzip"})
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q", rec.Header().Get("Content-Encoding"))
	}

	zr, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	if got := decodeEnvelope(t, plain); got.Map.ID != "solstice-metro" {
		t.Errorf("map id = %q", got.Map.ID)
	}
}
