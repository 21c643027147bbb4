package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "petgateway"

// PrometheusRecorder implements Recorder on a private Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	usersRegistered   prometheus.Counter
	logins            *prometheus.CounterVec
	credentialsIssued prometheus.Counter
	petsCreated       prometheus.Counter
	authFailures      *prometheus.CounterVec
	rateLimited       prometheus.Counter
	requestDuration   *prometheus.HistogramVec
}

// NewPrometheus creates a recorder with Go runtime and process collectors
// registered alongside the gateway metrics.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		usersRegistered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Total number of registered users.",
		}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts, by outcome.",
		}, []string{"outcome"}),
		credentialsIssued: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credentials_issued_total",
			Help:      "Total number of temporary credential sets issued.",
		}),
		petsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pets_created_total",
			Help:      "Total number of pets created.",
		}),
		authFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Total number of rejected signed requests, by reason.",
		}, []string{"reason"}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of throttled login and registration requests.",
		}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests, by route pattern and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *PrometheusRecorder) IncUserRegistered() { p.usersRegistered.Inc() }
func (p *PrometheusRecorder) IncLogin(outcome string) { p.logins.WithLabelValues(outcome).Inc() }
func (p *PrometheusRecorder) IncCredentialsIssued() { p.credentialsIssued.Inc() }
func (p *PrometheusRecorder) IncPetCreated() { p.petsCreated.Inc() }
func (p *PrometheusRecorder) IncRateLimited() { p.rateLimited.Inc() }

func (p *PrometheusRecorder) IncAuthFailure(reason string) {
	p.authFailures.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) ObserveRequestDuration(route string, status int, duration time.Duration) {
	p.requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(duration.Seconds())
}
