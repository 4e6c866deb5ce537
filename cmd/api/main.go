// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rodolfoorg/mi-empresa-virtual/internal/admin"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/auth"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/business"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/card"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/config"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/contact"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/core"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/health"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/ledger"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/license"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/middleware"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/product"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/server"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/storefront"
	"github.com/rodolfoorg/mi-empresa-virtual/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
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

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	licenseRepo := license.NewRepository(db.DB)
	licenseSvc := license.NewService(licenseRepo, cfg.License, logger)
	licenseHandler := license.NewHandler(licenseSvc)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, licenseSvc, redis.Client)
	authHandler := auth.NewHandler(authSvc)

	businessRepo := business.NewRepository(db.DB)
	businessSvc := business.NewService(businessRepo)
	businessHandler := business.NewHandler(businessSvc)

	productRepo := product.NewRepository(db.DB)
	productSvc := product.NewService(productRepo, licenseSvc, businessSvc)
	productHandler := product.NewHandler(productSvc)

	cardRepo := card.NewRepository(db.DB)
	cardSvc := card.NewService(cardRepo, licenseSvc, businessSvc)
	cardHandler := card.NewHandler(cardSvc)

	contactRepo := contact.NewRepository(db.DB)
	contactSvc := contact.NewService(contactRepo, businessSvc)
	contactHandler := contact.NewHandler(contactSvc)

	ledgerStore := ledger.NewStore(db.DB)
	ledgerSvc := ledger.NewService(
		ledgerStore,
		licenseSvc,
		businessSvc,
		ledger.NewLogNotifier(logger),
	)
	ledgerHandler := ledger.NewHandler(ledgerSvc)

	storefrontRepo := storefront.NewRepository(db.DB)
	storefrontSvc := storefront.NewService(
		storefrontRepo,
		businessSvc,
		storefront.NewLogOrderNotifier(logger),
	)
	storefrontHandler := storefront.NewHandler(storefrontSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authn := middleware.Authenticator(jwtManager)
	planLimit := middleware.PlanRateLimiter(redis.Client, middleware.DefaultPlans)

	// plan-tiered limits only make sense after the user is known
	authenticated := func(next http.Handler) http.Handler {
		return authn(planLimit(next))
	}
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticated)

		r.Post("/users", authHandler.Register)

		userHandler.RegisterRoutes(r, authenticated)
		licenseHandler.RegisterRoutes(r, authenticated)
		businessHandler.RegisterRoutes(r, authenticated)
		productHandler.RegisterRoutes(r, authenticated)
		cardHandler.RegisterRoutes(r, authenticated)
		contactHandler.RegisterRoutes(r, authenticated)
		ledgerHandler.RegisterRoutes(r, authenticated)
		storefrontHandler.RegisterOwnerRoutes(r, authenticated)

		storefrontHandler.RegisterPublicRoutes(r)

		userHandler.RegisterAdminRoutes(r, authenticated, adminOnly)
		licenseHandler.RegisterAdminRoutes(r, authenticated, adminOnly)
		adminHandler.RegisterRoutes(r, authenticated, adminOnly)
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

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
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
