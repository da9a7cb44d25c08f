// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package logging

import (
	"net/url"
	"strings"
)

// SanitizeToken masks a token, showing only the first and last 4 characters.
// Example: "sk-live-0123456789abcdef" -> "sk-l...cdef"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeURL strips credentials and the query string from a URL before it
// is logged. Unparseable input is masked entirely.
func SanitizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		u.User = url.User("***")
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// SanitizeHeader masks header values that carry credentials.
func SanitizeHeader(name, value string) string {
	switch strings.ToLower(name) {
	case "authorization", "proxy-authorization", "cookie", "x-api-key":
		return SanitizeToken(value)
	}
	return value
}
