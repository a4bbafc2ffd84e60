package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"media-gallery/internal/gallery"
	"media-gallery/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// healthLoopTimeout bounds how long the health check waits for the loop.
const healthLoopTimeout = 2 * time.Second

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	LastScan    string `json:"lastScan,omitempty"`
	Items       int    `json:"items"`
	Focus       int    `json:"focus"`
	LivePlayers int    `json:"livePlayers"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	// Stats summary
	TotalImages int `json:"totalImages,omitempty"`
	TotalVideos int `json:"totalVideos,omitempty"`
}

// HealthCheck returns the health status of the service. It is ready once
// the first scan has completed and the loop answers.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Version:      startup.Version,
		Uptime:       h.now().Sub(h.started).Round(time.Second).String(),
		Focus:        -1,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	scanned := true
	if h.stats != nil {
		stats := h.stats.GetStats()
		response.TotalImages = stats.TotalImages
		response.TotalVideos = stats.TotalVideos
		if stats.LastScan.IsZero() {
			scanned = false
		} else {
			response.LastScan = stats.LastScan.Format(time.RFC3339)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthLoopTimeout)
	defer cancel()
	var items, focus, live int
	err := h.call(ctx, func(g *gallery.Gallery) {
		items, focus, live = g.Len(), g.Focus(), g.LiveCount()
	})
	if err == nil {
		response.Items, response.Focus, response.LivePlayers = items, focus, live
	}

	switch {
	case err != nil:
		response.Status = statusDegraded
	case !scanned:
		response.Status = statusStarting
	default:
		response.Status = statusHealthy
		response.Ready = true
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}
