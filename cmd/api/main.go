// Package main is the entrypoint for the pet gateway API server.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/petgateway/petgateway/internal/auth"
	"github.com/petgateway/petgateway/internal/cache"
	"github.com/petgateway/petgateway/internal/config"
	"github.com/petgateway/petgateway/internal/handler"
	"github.com/petgateway/petgateway/internal/identity"
	"github.com/petgateway/petgateway/internal/metrics"
	"github.com/petgateway/petgateway/internal/middleware"
	"github.com/petgateway/petgateway/internal/repository"
	"github.com/petgateway/petgateway/internal/repository/memory"
	"github.com/petgateway/petgateway/internal/router"
	"github.com/petgateway/petgateway/internal/server"
	"github.com/petgateway/petgateway/internal/service"
)

// sessionSweepInterval is how often expired in-memory sessions are dropped.
const sessionSweepInterval = time.Minute

// sessionStore is what both session backends provide.
type sessionStore interface {
	identity.SessionSaver
	auth.SessionLookup
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	srv, err := build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"region", cfg.Region,
		"postgres", cfg.UsePostgres(),
		"redis", cfg.UseRedis(),
		"signature_required", cfg.SignatureRequired,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// cleanupStack releases resources opened by build when a later step fails.
type cleanupStack []func()

func (c *cleanupStack) push(fn func()) { *c = append(*c, fn) }

// unwind runs the cleanups newest first.
func (c *cleanupStack) unwind() {
	for i := len(*c) - 1; i >= 0; i-- {
		(*c)[i]()
	}
	*c = nil
}

// build connects the configured stores and assembles the server.
func build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *server.Server, err error) {
	var cleanups cleanupStack
	defer func() {
		if err != nil {
			cleanups.unwind()
		}
	}()

	var (
		users     service.UserStore
		pets      service.PetStore
		sessions  sessionStore
		limiter   middleware.AuthLimiter
		dbCheck   handler.HealthChecker
		cacheChk  handler.HealthChecker
		shutdowns []func(*server.Server)
	)

	if cfg.UsePostgres() {
		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			return nil, err
		}
		cleanups.push(repo.Close)
		if err := repo.Migrate(ctx); err != nil {
			return nil, err
		}
		logger.Info("connected to database")

		users, pets, dbCheck = repo, repo, repo
		shutdowns = append(shutdowns, func(s *server.Server) {
			s.OnShutdown("postgres", func(context.Context) error {
				repo.Close()
				return nil
			})
		})
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory user and pet stores")
		users, pets = memory.NewUsers(), memory.NewPets()
	}

	if cfg.UseRedis() {
		cacheClient, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return nil, err
		}
		cleanups.push(func() { _ = cacheClient.Close() })
		logger.Info("connected to Redis")

		sessions, limiter, cacheChk = cacheClient, cacheClient, cacheClient
		shutdowns = append(shutdowns, func(s *server.Server) {
			s.OnShutdown("redis", func(context.Context) error {
				return cacheClient.Close()
			})
		})
	} else {
		logger.Warn("REDIS_URL not set, using in-memory sessions; auth throttling disabled")
		mem := cache.NewMemorySessions()
		sweepCtx, stopSweeper := context.WithCancel(ctx)
		go mem.RunSweeper(sweepCtx, sessionSweepInterval)
		cleanups.push(stopSweeper)

		sessions = mem
		shutdowns = append(shutdowns, func(s *server.Server) {
			s.OnShutdown("session sweeper", func(context.Context) error {
				stopSweeper()
				return nil
			})
		})
	}

	broker, err := identity.NewLocalBroker(identity.Config{
		Region:         cfg.Region,
		PoolID:         cfg.IdentityPoolID,
		ProviderName:   cfg.DeveloperProviderName,
		SigningKey:     []byte(cfg.TokenSigningKey),
		CredentialsTTL: cfg.CredentialsTTL,
	}, sessions, logger)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewPrometheus()

	r := router.New(router.Deps{
		Logger:             logger,
		Users:              service.NewUserService(users, broker, logger, recorder),
		Pets:               service.NewPetService(pets, cfg.PetPageLimit, recorder),
		Verifier:           auth.NewVerifier(sessions, cfg.Region, cfg.ServiceName, cfg.SignatureMaxSkew),
		Metrics:            recorder,
		MetricsExporter:    recorder.Handler(),
		Limiter:            limiter,
		DB:                 dbCheck,
		Sessions:           cacheChk,
		IsDevelopment:      cfg.IsDevelopment(),
		SignatureRequired:  cfg.SignatureRequired,
		RateLimitEnabled:   cfg.RateLimitAuthEnabled,
		RateLimitRPS:       cfg.RateLimitAuthRPS,
		RateLimitBurst:     cfg.RateLimitAuthBurst,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := server.New(r, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	for _, register := range shutdowns {
		register(srv)
	}

	return srv, nil
}
