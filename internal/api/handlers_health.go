// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package api

import (
	"net/http"
	"time"
)

// LivenessResponse is returned by /api/health/live.
type LivenessResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse is returned by /api/health/ready.
type ReadinessResponse struct {
	Status        string  `json:"status"`
	ChatKit       string  `json:"chatkit"`
	MapID         string  `json:"map_id"`
	MapRevision   uint64  `json:"map_revision"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, LivenessResponse{Status: "ok"})
}

// HealthReady reports component state. The map endpoints work without a
// conversational server, so readiness is always 200; an open upstream
// circuit downgrades status to "degraded".
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	chatState := h.chatkit.Status()
	status := "ok"
	if chatState == "open" {
		status = "degraded"
	}

	st := h.store.Status()
	respondJSON(w, http.StatusOK, ReadinessResponse{
		Status:        status,
		ChatKit:       chatState,
		MapID:         st.ID,
		MapRevision:   st.Revision,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}
