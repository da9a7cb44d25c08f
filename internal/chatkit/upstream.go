// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package chatkit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/metromap/internal/config"
	"github.com/tomtom215/metromap/internal/logging"
	"github.com/tomtom215/metromap/internal/metrics"
)

const (
	breakerName = "chatkit-upstream"

	// maxResponseBytes bounds non-streaming upstream bodies.
	maxResponseBytes = 32 << 20

	// maxErrorBodyBytes bounds the upstream body kept in an UpstreamStatusError.
	maxErrorBodyBytes = 4 << 10
)

// UpstreamOption customizes an UpstreamServer.
type UpstreamOption func(*UpstreamServer)

// WithHTTPClient replaces the HTTP client used for upstream calls.
func WithHTTPClient(c *http.Client) UpstreamOption {
	return func(u *UpstreamServer) { u.client = c }
}

// UpstreamServer forwards conversational requests to a ChatKit-compatible
// HTTP endpoint.
type UpstreamServer struct {
	endpoint string
	apiKey   string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*http.Response]
	logger   zerolog.Logger
}

var _ Server = (*UpstreamServer)(nil)

// NewUpstreamServer validates cfg and builds the client and breaker.
func NewUpstreamServer(cfg config.ChatKitConfig, opts ...UpstreamOption) (*UpstreamServer, error) {
	u, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("upstream url must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("upstream url has no host")
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}

	// No overall client timeout: streams stay open as long as the
	// upstream keeps producing and the caller's context lives.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = connectTimeout

	s := &UpstreamServer{
		endpoint: u.String(),
		apiKey:   cfg.APIKey,
		client:   &http.Client{Transport: transport},
		logger:   logging.WithComponent("chatkit"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.breaker = newBreaker(cfg.Breaker, s.logger)
	return s, nil
}

func newBreaker(cfg config.BreakerConfig, logger zerolog.Logger) *gobreaker.CircuitBreaker[*http.Response] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= threshold
			if trip {
				logger.Warn().
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("Opening ChatKit upstream circuit")
			}
			return trip
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var statusErr *UpstreamStatusError
			return errors.As(err, &statusErr) && statusErr.StatusCode < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state transition")
			metrics.RecordBreakerTransition(name, from.String(), to.String(), stateToFloat(to))
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// State reports the breaker state: "closed", "half-open" or "open".
func (u *UpstreamServer) State() string {
	return u.breaker.State().String()
}

// Process forwards payload upstream and converts the response into a
// result shape. The request is bound to ctx, so canceling ctx aborts both
// the call and any stream it returned.
func (u *UpstreamServer) Process(ctx context.Context, payload []byte, rc RequestContext) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	contentType := "application/json"
	if rc.Request != nil {
		if ct := rc.Request.Header.Get("Content-Type"); ct != "" {
			contentType = ct
		}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/event-stream, application/json")
	req.Header.Set(MapIDHeader, rc.MapID)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}
	if e := u.logger.Debug(); e.Enabled() {
		headers := zerolog.Dict()
		for name := range req.Header {
			headers.Str(name, logging.SanitizeHeader(name, req.Header.Get(name)))
		}
		e.Str("endpoint", u.endpoint).Dict("headers", headers).Msg("Forwarding chatkit request")
	}

	resp, err := u.breaker.Execute(func() (*http.Response, error) {
		resp, err := u.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, newStatusError(resp)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerResult(breakerName, "rejected")
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		metrics.RecordBreakerResult(breakerName, "failure")
		return nil, fmt.Errorf("chatkit upstream: %w", err)
	}
	metrics.RecordBreakerResult(breakerName, "success")

	return u.toResult(resp)
}

func newStatusError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return &UpstreamStatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func (u *UpstreamServer) toResult(resp *http.Response) (any, error) {
	contentType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	if mediaType == "text/event-stream" {
		return NewSSEStream(resp.Body), nil
	}

	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("upstream response exceeds %d bytes", maxResponseBytes)
	}

	if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
		return JSONResult(body), nil
	}

	u.logger.Debug().Str("content_type", contentType).Msg("Upstream returned non-JSON response")
	return UpstreamResponse{
		Status:      resp.StatusCode,
		ContentType: contentType,
		Body:        string(body),
	}, nil
}
