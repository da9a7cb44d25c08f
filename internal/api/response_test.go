// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		data       interface{}
		wantStatus int
		wantBody   string
	}{
		{name: "detail", data: ErrorResponse{Detail: "nope"}, wantStatus: http.StatusTeapot, wantBody: `{"detail":"nope"}`},
		{name: "unmarshalable", data: map[string]interface{}{"ch": make(chan int)}, wantStatus: http.StatusInternalServerError, wantBody: `{"detail":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondJSON(rec, http.StatusTeapot, tt.data)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantBody)
			}
			if rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRespondRawJSON_Verbatim(t *testing.T) {
	rec := httptest.NewRecorder()
	body := []byte(`{ "spaced" : true }`)
	respondRawJSON(rec, http.StatusOK, body)

	if rec.Body.String() != string(body) {
		t.Errorf("body = %q, want verbatim %q", rec.Body.String(), body)
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
}
