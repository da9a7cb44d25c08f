// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package chatkit

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/metromap/internal/config"
	"github.com/tomtom215/metromap/internal/logging"
)

// UnavailableMessage is returned to clients while no conversational
// server is configured.
const UnavailableMessage = "ChatKit upstream is not configured. Set CHATKIT_UPSTREAM_URL " +
	"to enable the conversational endpoint."

var (
	// ErrUnavailable means no conversational server was constructed.
	ErrUnavailable = errors.New("chatkit server unavailable")

	// ErrCircuitOpen means the upstream breaker is rejecting calls.
	ErrCircuitOpen = errors.New("chatkit upstream circuit open")
)

// UpstreamStatusError reports a non-2xx response from the upstream.
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// Server processes one conversational request. Implementations must be
// safe for concurrent use.
type Server interface {
	Process(ctx context.Context, payload []byte, rc RequestContext) (any, error)
}

// ServerFunc adapts a function to Server.
type ServerFunc func(ctx context.Context, payload []byte, rc RequestContext) (any, error)

// Process calls f.
func (f ServerFunc) Process(ctx context.Context, payload []byte, rc RequestContext) (any, error) {
	return f(ctx, payload, rc)
}

// StateReporter is implemented by servers that can describe their health,
// such as UpstreamServer's breaker state.
type StateReporter interface {
	State() string
}

// Provider holds the process-wide conversational server, or the reason
// there is none.
type Provider struct {
	server Server
	reason string
}

// Available wraps a constructed server.
func Available(s Server) Provider {
	if s == nil {
		return Unavailable(UnavailableMessage)
	}
	return Provider{server: s}
}

// Unavailable records that no server exists. reason is shown to clients.
func Unavailable(reason string) Provider {
	if reason == "" {
		reason = UnavailableMessage
	}
	return Provider{reason: reason}
}

// NewProvider builds the upstream server from cfg. A missing upstream URL
// or a construction failure yields an Unavailable provider; the failure is
// logged and the process keeps running.
func NewProvider(cfg config.ChatKitConfig, opts ...UpstreamOption) Provider {
	log := logging.WithComponent("chatkit")

	if !cfg.Enabled() {
		log.Warn().Msg("No ChatKit upstream configured; /chatkit will answer 503")
		return Unavailable(UnavailableMessage)
	}

	srv, err := NewUpstreamServer(cfg, opts...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to construct ChatKit upstream; /chatkit will answer 503")
		return Unavailable(UnavailableMessage)
	}

	log.Info().
		Str("upstream", logging.SanitizeURL(cfg.UpstreamURL)).
		Str("api_key", logging.SanitizeToken(cfg.APIKey)).
		Msg("ChatKit upstream configured")
	return Available(srv)
}

// Server returns the configured server or an error wrapping ErrUnavailable.
func (p Provider) Server() (Server, error) {
	if p.server == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, p.Reason())
	}
	return p.server, nil
}

// IsAvailable reports whether a server is configured.
func (p Provider) IsAvailable() bool {
	return p.server != nil
}

// Reason is the client-facing message for an unavailable provider.
func (p Provider) Reason() string {
	if p.server != nil {
		return ""
	}
	if p.reason == "" {
		return UnavailableMessage
	}
	return p.reason
}

// Status summarizes the provider for readiness checks: "unavailable",
// "available", or the server's own state when it reports one.
func (p Provider) Status() string {
	if p.server == nil {
		return "unavailable"
	}
	if sr, ok := p.server.(StateReporter); ok {
		return sr.State()
	}
	return "available"
}
