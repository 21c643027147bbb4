// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the gateway backend configuration.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Storage. Empty URLs select the in-memory stores.
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Gateway identity
	Region                string `env:"REGION" envDefault:"us-east-1"`
	ServiceName           string `env:"SERVICE_NAME" envDefault:"execute-api"`
	IdentityPoolID        string `env:"IDENTITY_POOL_ID" envDefault:"us-east-1:petgateway"`
	DeveloperProviderName string `env:"DEVELOPER_PROVIDER_NAME" envDefault:"login.petgateway"`

	// HMAC key for identity tokens
	TokenSigningKey string        `env:"TOKEN_SIGNING_KEY,required,notEmpty"`
	CredentialsTTL  time.Duration `env:"CREDENTIALS_TTL" envDefault:"1h"`

	// Request signing
	SignatureRequired bool          `env:"SIGNATURE_REQUIRED" envDefault:"true"`
	SignatureMaxSkew  time.Duration `env:"SIGNATURE_MAX_SKEW" envDefault:"5m"`

	PetPageLimit int `env:"PET_PAGE_LIMIT" envDefault:"50"`

	// Rate limiting for login and registration, per client IP
	RateLimitAuthEnabled bool `env:"RATE_LIMIT_AUTH_ENABLED" envDefault:"true"`
	RateLimitAuthRPS     int  `env:"RATE_LIMIT_AUTH_RPS" envDefault:"5"`
	RateLimitAuthBurst   int  `env:"RATE_LIMIT_AUTH_BURST" envDefault:"10"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsePostgres reports whether users and pets live in Postgres.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// UseRedis reports whether sessions and rate limits live in Redis.
func (c *Config) UseRedis() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.PetPageLimit < 1 {
		return nil, fmt.Errorf("failed to parse config: PET_PAGE_LIMIT must be positive, got %d", cfg.PetPageLimit)
	}
	return cfg, nil
}

// ClientConfig holds the petctl configuration.
type ClientConfig struct {
	Endpoint    string        `env:"PETS_ENDPOINT,required,notEmpty"`
	Region      string        `env:"PETS_REGION" envDefault:"us-east-1"`
	ServiceName string        `env:"PETS_SERVICE_NAME" envDefault:"execute-api"`
	Timeout     time.Duration `env:"PETS_TIMEOUT" envDefault:"30s"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"warn"`

	// Username and Password may also be given as flags.
	Username string `env:"PETS_USERNAME"`
	Password string `env:"PETS_PASSWORD"`
}

// LoadClient parses the petctl environment.
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse client config: %w", err)
	}
	return cfg, nil
}
