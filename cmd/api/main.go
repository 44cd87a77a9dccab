// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/templates/event-backend/internal/admin"
	"github.com/carterperez-dev/templates/event-backend/internal/auth"
	"github.com/carterperez-dev/templates/event-backend/internal/config"
	"github.com/carterperez-dev/templates/event-backend/internal/core"
	"github.com/carterperez-dev/templates/event-backend/internal/event"
	"github.com/carterperez-dev/templates/event-backend/internal/health"
	"github.com/carterperez-dev/templates/event-backend/internal/media"
	"github.com/carterperez-dev/templates/event-backend/internal/middleware"
	"github.com/carterperez-dev/templates/event-backend/internal/server"
	"github.com/carterperez-dev/templates/event-backend/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("failed to initialize telemetry", "error", err)
		telemetry = &core.Telemetry{}
	} else if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("database close error", "error", closeErr)
		}
	}()
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	created, err := user.EnsureAdmin(ctx, db.DB, cfg.Admin)
	if err != nil {
		return err
	}
	if created {
		logger.Info("bootstrap admin created", "email", user.NormalizeEmail(cfg.Admin.Email))
	}

	rdb, err := core.NewRedis(ctx, cfg.Redis, cfg.App.Name)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rdb.Close(); closeErr != nil {
			logger.Error("redis close error", "error", closeErr)
		}
	}()
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "HS256",
		"ttl", cfg.JWT.AccessTokenExpire,
	)

	var uploader media.Uploader
	deps := []health.Dependency{
		{Name: "database", Checker: db},
		{Name: "redis", Checker: rdb},
	}
	if cfg.Media.Enabled() {
		s3Uploader, upErr := media.NewS3Uploader(ctx, cfg.Media)
		if upErr != nil {
			return fmt.Errorf("media uploader: %w", upErr)
		}
		uploader = s3Uploader
		deps = append(deps, health.Dependency{
			Name:     "media",
			Checker:  s3Uploader,
			Optional: true,
		})
		logger.Info("media storage configured",
			"bucket", cfg.Media.Bucket,
			"folder", cfg.Media.Folder,
		)
	} else {
		logger.Warn("media storage not configured, image uploads disabled")
	}

	userSvc := user.NewService(user.NewRepository(db.DB))
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(tokens, userSvc, cfg.Auth.AllowAdminSignup)
	authHandler := auth.NewHandler(authSvc)
	gate := auth.NewGate(tokens, userSvc, time.Now)

	eventSvc := event.NewService(event.NewRepository(db.DB))
	eventHandler := event.NewHandler(eventSvc)

	mediaHandler := media.NewHandler(uploader, cfg.Media.MaxUploadBytes)

	healthHandler := health.NewHandler(deps...)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: rdb.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  rdb.Ping,
		Users:      userSvc,
		Events:     eventSvc,
	})

	proxies, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(globalMiddleware(cfg, logger, telemetry.Tracer, proxies, rdb.Client)...)

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(gate)
	adminOnly := middleware.RequireAdmin(gate)
	loginLimiter := middleware.NewRateLimiter(rdb.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.Auth.LoginRateLimit,
			cfg.Auth.LoginRateBurst,
		),
		KeyFunc:  middleware.KeyByLoginIP,
		FailOpen: true,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, loginLimiter)
		eventHandler.RegisterRoutes(r, authenticator, adminOnly)
		mediaHandler.RegisterRoutes(r, authenticator, adminOnly)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// globalMiddleware is applied to every route. CORS answers preflights
// before the rate limiter sees them, so 429s still carry CORS headers.
func globalMiddleware(
	cfg *config.Config,
	logger *slog.Logger,
	tracer trace.Tracer,
	proxies []netip.Prefix,
	rdb *redis.Client,
) []func(http.Handler) http.Handler {
	limiter := middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
		Limit: middleware.Limit(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		FailOpen: true,
	})

	return []func(http.Handler) http.Handler{
		middleware.TrustedRealIP(proxies),
		middleware.RequestID,
		middleware.Tracing(tracer),
		middleware.Logger(logger),
		middleware.SecurityHeaders(cfg.IsProduction()),
		middleware.CORS(cfg.CORS),
		limiter.Handler,
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
