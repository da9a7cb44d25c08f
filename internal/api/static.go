// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tomtom215/metromap/internal/logging"
)

// FrontendUnavailableMessage is returned for SPA routes when no
// index.html exists.
const FrontendUnavailableMessage = "API is running. Frontend not available."

// ResolveStaticDir returns the first candidate that is an existing
// directory, or "" when none is.
func ResolveStaticDir(candidates []string) string {
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// StaticSite serves the pre-built frontend. A zero dir means no frontend.
type StaticSite struct {
	dir string
}

// NewStaticSite serves files from dir. Pass "" when no build was found.
func NewStaticSite(dir string) *StaticSite {
	if dir != "" {
		logging.Info().Str("dir", dir).Msg("Serving frontend build")
	} else {
		logging.Info().Msg("No frontend build found; serving API only")
	}
	return &StaticSite{dir: dir}
}

// Enabled reports whether a static directory was resolved.
func (s *StaticSite) Enabled() bool {
	return s != nil && s.dir != ""
}

// Assets serves /assets/* from <dir>/assets. Missing files and directories
// answer 404.
func (s *StaticSite) Assets(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(r.URL.Path, "/assets")), "/")
	if rel == "" {
		respondDetail(w, http.StatusNotFound, "Not Found")
		return
	}

	name := filepath.Join(s.dir, "assets", filepath.FromSlash(rel))
	if !s.serveFile(w, r, name) {
		respondDetail(w, http.StatusNotFound, "Not Found")
		return
	}
}

// Index serves index.html for any path, or the informational message when
// the build has no index.html. It never answers 404.
func (s *StaticSite) Index(w http.ResponseWriter, r *http.Request) {
	if s.Enabled() {
		w.Header().Set("Cache-Control", "no-cache")
		if s.serveFile(w, r, filepath.Join(s.dir, "index.html")) {
			return
		}
		w.Header().Del("Cache-Control")
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: FrontendUnavailableMessage})
}

// serveFile writes a regular file with http.ServeContent and reports
// whether it existed.
func (s *StaticSite) serveFile(w http.ResponseWriter, r *http.Request, name string) bool {
	f, err := os.Open(name) //nolint:gosec // name is cleaned and rooted under the static dir
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	if strings.Contains(filepath.ToSlash(name), "/assets/") {
		// Build assets are content hashed.
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}
