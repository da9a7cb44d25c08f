// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package chatkit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/metromap/internal/config"
)

func TestProvider_Unavailable(t *testing.T) {
	p := Unavailable("")
	if p.IsAvailable() {
		t.Fatal("IsAvailable() = true")
	}
	srv, err := p.Server()
	if srv != nil {
		t.Error("Server() returned a server for an unavailable provider")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Server() error = %v, want ErrUnavailable", err)
	}
	if p.Reason() != UnavailableMessage {
		t.Errorf("Reason() = %q", p.Reason())
	}
	if p.Status() != "unavailable" {
		t.Errorf("Status() = %q, want unavailable", p.Status())
	}
}

func TestProvider_Available(t *testing.T) {
	fake := ServerFunc(func(context.Context, []byte, RequestContext) (any, error) {
		return map[string]string{"ok": "yes"}, nil
	})
	p := Available(fake)
	if !p.IsAvailable() {
		t.Fatal("IsAvailable() = false")
	}
	srv, err := p.Server()
	if err != nil {
		t.Fatalf("Server() error = %v", err)
	}
	if _, err := srv.Process(context.Background(), nil, RequestContext{}); err != nil {
		t.Errorf("Process() error = %v", err)
	}
	if p.Reason() != "" {
		t.Errorf("Reason() = %q, want empty", p.Reason())
	}
	if p.Status() != "available" {
		t.Errorf("Status() = %q, want available", p.Status())
	}
}

func TestProvider_AvailableNil(t *testing.T) {
	if Available(nil).IsAvailable() {
		t.Error("Available(nil) reported available")
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.ChatKitConfig
		available bool
	}{
		{name: "not configured", cfg: config.ChatKitConfig{}, available: false},
		{name: "bad scheme", cfg: config.ChatKitConfig{UpstreamURL: "ftp://chat.example.com"}, available: false},
		{name: "no host", cfg: config.ChatKitConfig{UpstreamURL: "http://"}, available: false},
		{name: "configured", cfg: config.ChatKitConfig{UpstreamURL: "https://chat.example.com/chatkit"}, available: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(tt.cfg)
			if p.IsAvailable() != tt.available {
				t.Errorf("IsAvailable() = %v, want %v", p.IsAvailable(), tt.available)
			}
			if tt.available && p.Status() != "closed" {
				t.Errorf("Status() = %q, want breaker state closed", p.Status())
			}
		})
	}
}

func TestUpstreamStatusError(t *testing.T) {
	err := &UpstreamStatusError{StatusCode: 500, Body: "boom"}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q", err.Error())
	}
	bare := &UpstreamStatusError{StatusCode: 404}
	if bare.Error() != "upstream returned status 404" {
		t.Errorf("Error() = %q", bare.Error())
	}
}
