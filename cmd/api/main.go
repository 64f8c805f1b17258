// Package main is the entrypoint for the dashboard sync API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/guivr/ohmydashboard-sub002/internal/cache"
	"github.com/guivr/ohmydashboard-sub002/internal/config"
	"github.com/guivr/ohmydashboard-sub002/internal/handler"
	"github.com/guivr/ohmydashboard-sub002/internal/integration"
	"github.com/guivr/ohmydashboard-sub002/internal/metrics"
	"github.com/guivr/ohmydashboard-sub002/internal/middleware"
	"github.com/guivr/ohmydashboard-sub002/internal/repository"
	"github.com/guivr/ohmydashboard-sub002/internal/scheduler"
	"github.com/guivr/ohmydashboard-sub002/internal/server"
	"github.com/guivr/ohmydashboard-sub002/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	metricsRecorder := metrics.NewInMemory()

	// Register every integration with configured credentials. The
	// account registry itself loads lazily on the first sync.
	registry := integration.NewRegistry(metricsRecorder, logger)
	if cfg.BillingAPIKey != "" {
		registry.Register(integration.NewBilling(cfg.BillingAPIKey))
	}
	if cfg.AnalyticsAPIKey != "" && cfg.AnalyticsSiteID != "" {
		registry.Register(integration.NewAnalytics(cfg.AnalyticsAPIKey, cfg.AnalyticsSiteID))
	}
	logger.Info("integrations registered", "integrations", registry.Integrations())

	governor := service.NewGovernor(cfg.SyncCooldown)
	orchestrator := service.NewOrchestrator(registry, governor, repo, cacheClient, metricsRecorder, logger)

	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	syncHandler := handler.NewSyncHandler(orchestrator, repo, cacheClient, logger)
	integrationHandler := handler.NewIntegrationHandler(registry)
	hookHandler := handler.NewRefreshHookHandler(cfg.WebhookSigningSecret, orchestrator, metricsRecorder, logger)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	r := setupRouter(h, healthHandler, syncHandler, integrationHandler, hookHandler, metricsHandler, metricsRecorder, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	if cfg.SyncInterval > 0 {
		worker := scheduler.New(orchestrator, cfg.SyncInterval, logger)
		go func() {
			if err := worker.Run(ctx); err != nil {
				logger.Error("scheduler error", "error", err)
			}
		}()
		srv.OnShutdown("scheduler", worker.Shutdown)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"cooldown", cfg.SyncCooldown,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	syncHandler *handler.SyncHandler,
	integrationHandler *handler.IntegrationHandler,
	hookHandler *handler.RefreshHookHandler,
	metricsHandler *handler.MetricsHandler,
	recorder metrics.Recorder,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Inbound refresh hooks authenticate via HMAC signature, not origin.
	r.Post("/webhooks/refresh", hookHandler.Refresh)

	// API v1 routes (browser-facing, origin-checked)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CSRF(cfg.GetTrustedOrigins(), recorder, logger))

		r.Post("/sync", syncHandler.Sync)
		r.Get("/sync/status", syncHandler.Status)
		r.Get("/sync/runs", syncHandler.Runs)
		r.Get("/integrations", integrationHandler.List)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.AdminTokenHash))
			r.Get("/metrics", metricsHandler.Metrics)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
