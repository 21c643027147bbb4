// Package router wires handlers and middleware into the gateway's HTTP routes.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/petgateway/petgateway/internal/auth"
	"github.com/petgateway/petgateway/internal/handler"
	"github.com/petgateway/petgateway/internal/metrics"
	"github.com/petgateway/petgateway/internal/middleware"
	"github.com/petgateway/petgateway/internal/service"
)

// Deps holds everything the routes need.
type Deps struct {
	Logger   *slog.Logger
	Users    *service.UserService
	Pets     *service.PetService
	Verifier *auth.Verifier
	Metrics  metrics.Recorder
	// MetricsExporter serves /metrics. Falls back to Metrics when it is a
	// metrics.Snapshotter.
	MetricsExporter http.Handler
	// Limiter throttles /users and /login. Nil disables throttling.
	Limiter middleware.AuthLimiter
	// DB and Sessions back /readyz. Nil means the in-memory store.
	DB       handler.HealthChecker
	Sessions handler.HealthChecker

	IsDevelopment      bool
	SignatureRequired  bool
	RateLimitEnabled   bool
	RateLimitRPS       int
	RateLimitBurst     int
	// TrustProxyHeaders rewrites RemoteAddr from X-Forwarded-For/X-Real-IP.
	TrustProxyHeaders  bool
	MaxRequestBodySize int64
}

// New builds the gateway router.
func New(d Deps) *chi.Mux {
	if d.Metrics == nil {
		d.Metrics = metrics.NewNoop()
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(d.DB, d.Sessions)
	userHandler := handler.NewUserHandler(d.Users, d.Logger)
	petHandler := handler.NewPetHandler(d.Pets, d.Logger)
	snapshotter, _ := d.Metrics.(metrics.Snapshotter)
	metricsHandler := handler.NewMetricsHandler(d.MetricsExporter, snapshotter)

	r := chi.NewRouter()

	if d.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger, d.Metrics))
	r.Use(middleware.Recoverer(d.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.IsDevelopment}))
	r.Use(middleware.MaxBodySize(d.MaxRequestBodySize))

	r.Get("/", h.Info)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	throttle := middleware.RateLimitAuth(middleware.RateLimitConfig{
		Logger:  d.Logger,
		Limiter: d.Limiter,
		Metrics: d.Metrics,
		Enabled: d.RateLimitEnabled,
		RPS:     d.RateLimitRPS,
		Burst:   d.RateLimitBurst,
	})
	r.With(throttle).Post("/users", userHandler.Register)
	r.With(throttle).Post("/login", userHandler.Login)

	r.Route("/pets", func(r chi.Router) {
		r.Use(middleware.Signature(middleware.SignatureConfig{
			Logger:   d.Logger,
			Verifier: d.Verifier,
			Metrics:  d.Metrics,
			Required: d.SignatureRequired,
		}))

		r.Get("/", petHandler.List)
		r.Post("/", petHandler.Create)
		r.Get("/{petId}", petHandler.Get)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
