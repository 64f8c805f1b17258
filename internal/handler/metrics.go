package handler

import (
	"fmt"
	"net/http"

	"github.com/guivr/ohmydashboard-sub002/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
//
// GET /api/v1/admin/metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "ohmydashboard_sync_requests_total %d\n", snap.SyncRequested)

	writeMetric(w, "ohmydashboard_sync_rejected_total{reason=\"forged\"} %d\n", snap.SyncRejectedForged)
	writeMetric(w, "ohmydashboard_sync_rejected_total{reason=\"invalid_input\"} %d\n", snap.SyncRejectedInvalid)
	writeMetric(w, "ohmydashboard_sync_rejected_total{reason=\"rate_limited\"} %d\n", snap.SyncRejectedThrottled)

	writeMetric(w, "ohmydashboard_sync_runs_total{status=\"succeeded\"} %d\n", snap.SyncSucceeded)
	writeMetric(w, "ohmydashboard_sync_runs_total{status=\"failed\"} %d\n", snap.SyncFailed)

	writeMetric(w, "ohmydashboard_sync_duration_seconds_count %d\n", snap.SyncDurationCount)
	writeMetric(w, "ohmydashboard_sync_duration_seconds_sum %.6f\n", float64(snap.SyncDurationTotalNs)/1e9)

	writeMetric(w, "ohmydashboard_integrations_loaded %d\n", snap.IntegrationsLoaded)

	writeMetric(w, "ohmydashboard_refresh_hooks_total{status=\"verified\"} %d\n", snap.WebhooksVerified)
	writeMetric(w, "ohmydashboard_refresh_hooks_total{status=\"rejected\"} %d\n", snap.WebhooksRejected)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
