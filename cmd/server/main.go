package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"metricly/internal/api"
	"metricly/internal/api/handlers"
	"metricly/internal/api/middleware"
	"metricly/internal/engine/accounts"
	"metricly/internal/pkg/logger"
	"metricly/internal/platform/audit"
	"metricly/internal/platform/auth"
	"metricly/internal/platform/config"
	"metricly/internal/platform/database"
	"metricly/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging, cfg.App.Debug)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database, "up"); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
		log.Info().Msg("database migrations applied")
	}

	// Database Connection
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	orgRepo := repositories.NewOrganizationRepository(db.DB)
	userRepo := repositories.NewUserRepository(db.DB)
	keyRepo := repositories.NewAPIKeyRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)

	// Services
	tokenSvc, err := auth.NewTokenService(cfg.JWT)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token service")
	}
	hasher := auth.NewHasher(cfg.Security.BcryptCost)
	accountsSvc := accounts.NewService(orgRepo, userRepo, hasher, tokenSvc)
	auditLog := audit.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.AuthPerMinute)
	authLimiter.StartCleanup(ctx)

	// Router
	deps := &api.Dependencies{
		AuthHandler:      handlers.NewAuthHandler(accountsSvc, auditLog),
		APIKeyHandler:    handlers.NewAPIKeyHandler(keyRepo, auditLog),
		EventHandler:     handlers.NewEventHandler(eventRepo),
		HealthHandler:    handlers.NewHealthHandler(db),
		AuthMiddleware:   middleware.NewAuthMiddleware(tokenSvc, userRepo),
		TenantMiddleware: middleware.NewTenantMiddleware(orgRepo),
		APIKeyMiddleware: middleware.NewAPIKeyMiddleware(keyRepo),
		AuthRateLimiter:  authLimiter,
		Metrics:          middleware.NewMetrics(),
		CORSOrigins:      cfg.Backend.AllowedOrigins(),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.App.Env).
			Str("database", string(db.Dialect)).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
