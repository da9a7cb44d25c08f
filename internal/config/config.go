// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	ChatKit  ChatKitConfig  `koanf:"chatkit"`
	Map      MapConfig      `koanf:"map"`
	Static   StaticConfig   `koanf:"static"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`

	// ReadTimeout bounds reading the request including the body.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds the whole response. Zero disables it, which is
	// required for long-lived /chatkit event streams.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// MaxBodyBytes caps request bodies for /map and /chatkit.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ChatKitConfig configures the conversational upstream.
// An empty UpstreamURL leaves the /chatkit endpoint unavailable (503).
type ChatKitConfig struct {
	UpstreamURL    string        `koanf:"upstream_url"`
	APIKey         string        `koanf:"api_key"`
	DefaultMapID   string        `koanf:"default_map_id"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	Breaker        BreakerConfig `koanf:"breaker"`
}

// Enabled reports whether an upstream conversational server is configured.
func (c ChatKitConfig) Enabled() bool {
	return c.UpstreamURL != ""
}

// BreakerConfig tunes the gobreaker circuit breaker in front of the upstream.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests"`
	// Interval after which closed-state counts reset.
	Interval time.Duration `koanf:"interval"`
	// Timeout the breaker stays open before probing again.
	Timeout time.Duration `koanf:"timeout"`
	// FailureThreshold consecutive failures trip the breaker.
	FailureThreshold uint32 `koanf:"failure_threshold"`
}

// MapConfig controls where the initial metro map comes from and whether
// replacements are persisted.
type MapConfig struct {
	SeedPath        string `koanf:"seed_path"`
	SnapshotEnabled bool   `koanf:"snapshot_enabled"`
	SnapshotPath    string `koanf:"snapshot_path"`
}

// StaticConfig lists candidate frontend build directories; the first one
// that exists is served.
type StaticConfig struct {
	Dirs []string `koanf:"dirs"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
