package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/petgateway/petgateway/internal/metrics"
)

// MetricsHandler exposes metrics in the Prometheus exposition format. It
// serves the Prometheus registry when one is configured and falls back to an
// in-memory snapshot otherwise.
type MetricsHandler struct {
	exporter    http.Handler
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler. Either argument may be nil.
func NewMetricsHandler(exporter http.Handler, snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{exporter: exporter, snapshotter: snapshotter}
}

// Metrics handles GET /metrics.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.exporter != nil {
		h.exporter.ServeHTTP(w, r)
		return
	}
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "petgateway_users_registered_total %d\n", snap.UsersRegistered)
	for _, outcome := range sortedKeys(snap.Logins) {
		writeMetric(w, "petgateway_logins_total{outcome=%q} %d\n", outcome, snap.Logins[outcome])
	}
	writeMetric(w, "petgateway_credentials_issued_total %d\n", snap.CredentialsIssued)
	writeMetric(w, "petgateway_pets_created_total %d\n", snap.PetsCreated)
	for _, reason := range sortedKeys(snap.AuthFailures) {
		writeMetric(w, "petgateway_auth_failures_total{reason=%q} %d\n", reason, snap.AuthFailures[reason])
	}
	writeMetric(w, "petgateway_rate_limited_total %d\n", snap.RateLimited)
	writeMetric(w, "petgateway_http_request_duration_seconds_count %d\n", snap.RequestCount)
	writeMetric(w, "petgateway_http_request_duration_seconds_sum %.6f\n", snap.RequestDurationTotal.Seconds())
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
