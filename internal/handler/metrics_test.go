package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/petgateway/petgateway/internal/metrics"
)

func TestMetricsHandler_Snapshot(t *testing.T) {
	t.Parallel()

	rec := metrics.NewInMemory()
	rec.IncUserRegistered()
	rec.IncLogin(metrics.LoginSuccess)
	rec.IncAuthFailure("unknown_access_key")

	h := NewMetricsHandler(nil, rec)
	w := httptest.NewRecorder()
	h.Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	for _, want := range []string{
		"petgateway_users_registered_total 1",
		`petgateway_logins_total{outcome="success"} 1`,
		`petgateway_auth_failures_total{reason="unknown_access_key"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetricsHandler_Prometheus(t *testing.T) {
	t.Parallel()

	prom := metrics.NewPrometheus()
	prom.IncPetCreated()

	h := NewMetricsHandler(prom.Handler(), nil)
	w := httptest.NewRecorder()
	h.Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(w.Body.String(), "petgateway_pets_created_total 1") {
		t.Errorf("unexpected output: %s", w.Body.String())
	}
}

func TestMetricsHandler_Unconfigured(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	NewMetricsHandler(nil, nil).Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
