// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateChatKit(); err != nil {
		return err
	}
	if err := c.validateMap(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return fmt.Errorf("HTTP timeouts must not be negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}

// validateChatKit validates the conversational upstream (only if configured).
func (c *Config) validateChatKit() error {
	if strings.TrimSpace(c.ChatKit.DefaultMapID) == "" {
		return fmt.Errorf("CHATKIT_DEFAULT_MAP_ID must not be empty")
	}
	if !c.ChatKit.Enabled() {
		return nil
	}
	if err := validateUpstreamURL(c.ChatKit.UpstreamURL); err != nil {
		return fmt.Errorf("CHATKIT_UPSTREAM_URL is invalid: %w", err)
	}
	if c.ChatKit.ConnectTimeout <= 0 {
		return fmt.Errorf("CHATKIT_CONNECT_TIMEOUT must be positive")
	}
	if c.ChatKit.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("CHATKIT_BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	if c.ChatKit.Breaker.Timeout <= 0 {
		return fmt.Errorf("CHATKIT_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateMap() error {
	if c.Map.SnapshotEnabled && c.Map.SnapshotPath == "" {
		return fmt.Errorf("MAP_SNAPSHOT_PATH is required when MAP_SNAPSHOT_ENABLED=true")
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateUpstreamURL checks an http(s) URL with a host. Unlike base-URL
// settings, a path is allowed since the upstream endpoint is addressed directly.
func validateUpstreamURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("host is required")
	}
	if parsedURL.Fragment != "" {
		return fmt.Errorf("fragment not allowed: #%s", parsedURL.Fragment)
	}
	return nil
}

// HasWildcardCORS reports whether any CORS origin is "*". Logged as a
// warning at startup.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
