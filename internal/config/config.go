// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL) for sync run history
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis) for latest sync results
	RedisURL string `env:"REDIS_URL,required"`

	// Origins trusted to trigger syncs (comma-separated, e.g.
	// "http://localhost:8080,https://dash.example.com")
	TrustedOrigins string `env:"TRUSTED_ORIGINS" envDefault:"http://localhost:8080"`

	// Minimum time between two admitted sync attempts for the same key
	SyncCooldown time.Duration `env:"SYNC_COOLDOWN" envDefault:"60s"`

	// Interval for background sync-all runs; 0 disables the scheduler
	SyncInterval time.Duration `env:"SYNC_INTERVAL" envDefault:"0"`

	// Integration credentials; an integration is enabled when its
	// credentials are set
	BillingAPIKey   string `env:"BILLING_API_KEY" envDefault:""`
	AnalyticsAPIKey string `env:"ANALYTICS_API_KEY" envDefault:""`
	AnalyticsSiteID string `env:"ANALYTICS_SITE_ID" envDefault:""`

	// Inbound refresh webhook signing secret; empty disables the endpoint
	WebhookSigningSecret string `env:"WEBHOOK_SIGNING_SECRET" envDefault:""`

	// Argon2id hash of the admin API token; empty disables token auth
	AdminTokenHash string `env:"ADMIN_TOKEN_HASH" envDefault:""`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request body size limit in bytes (default 64KB; sync bodies are tiny)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"65536"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetTrustedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetTrustedOrigins() []string {
	if c.TrustedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.TrustedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
