package handler

import (
	"fmt"
	"net/http"

	"github.com/curtail/curtail/internal/metrics"
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
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "curtail_redirect_cache_hits_total %d\n", snap.RedirectCacheHits)
	writeMetric(w, "curtail_redirect_cache_misses_total %d\n", snap.RedirectCacheMisses)
	writeMetric(w, "curtail_redirect_duration_seconds_count %d\n", snap.RedirectDurationCount)
	writeMetric(w, "curtail_redirect_duration_seconds_sum %.6f\n", float64(snap.RedirectDurationTotalNs)/1e9)

	writeMetric(w, "curtail_links_created_total %d\n", snap.LinksCreated)
	writeMetric(w, "curtail_links_updated_total %d\n", snap.LinksUpdated)
	writeMetric(w, "curtail_links_deleted_total %d\n", snap.LinksDeleted)

	writeMetric(w, "curtail_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "curtail_login_failures_total %d\n", snap.LoginFailures)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
