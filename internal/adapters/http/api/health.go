// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/passmap/pkg/metrics"
)

// ReadinessChecker reports whether the service can answer requests.
type ReadinessChecker interface {
	Ready() bool
}

// HealthHandler handles health and readiness requests.
type HealthHandler struct {
	ready ReadinessChecker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(ready ReadinessChecker) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// HandleHealth handles GET /healthz by exposing the metrics registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// HandleReady handles GET /readyz.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if h.ready == nil || !h.ready.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
