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

	"github.com/dimitrije/teamup-api/internal/cache"
	"github.com/dimitrije/teamup-api/internal/config"
	"github.com/dimitrije/teamup-api/internal/database"
	"github.com/dimitrije/teamup-api/internal/handlers"
	"github.com/dimitrije/teamup-api/internal/logger"
	authmw "github.com/dimitrije/teamup-api/internal/middleware"
	"github.com/dimitrije/teamup-api/internal/oauth"
	"github.com/dimitrije/teamup-api/internal/scheduler"
	"github.com/dimitrije/teamup-api/internal/services"
	"github.com/dimitrije/teamup-api/internal/sse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	projectCache := newProjectCache(ctx, cfg)

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	tokenService := services.NewTokenService(db)
	profileService := services.NewProfileService(db)
	projectService := services.NewProjectService(db, projectCache)
	joinRequestService := services.NewJoinRequestService(db)
	emailService := services.NewEmailService(cfg.SMTP)
	if !emailService.IsConfigured() {
		logger.Info().Msg("smtp not configured, e-mail notifications disabled")
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := sse.NewHub()
	go hub.Run(hubCtx)

	providers := oauth.NewRegistry(cfg)
	limiter := authmw.NewRateLimiter(cfg.JoinRequestLimit)

	authHandler := handlers.NewAuthHandler(cfg, providers, profileService, tokenService, jwtService)
	joinRequestHandler := handlers.NewJoinRequestHandler(joinRequestService, profileService, hub, emailService, cfg.FrontendURL)

	router := newRouter(cfg, jwtService, limiter, routeHandlers{
		auth:         authHandler,
		profile:      handlers.NewProfileHandler(profileService),
		project:      handlers.NewProjectHandler(projectService, hub),
		joinRequest:  joinRequestHandler,
		notification: handlers.NewNotificationHandler(hub),
		health:       handlers.NewHealthHandler(db.Pool),
	})

	jobs := scheduler.New(cfg.TokenCleanupSchedule, tokenService)
	jobs.AddSweeper("oauth_state", authHandler.SweepExpired)
	jobs.AddSweeper("join_rate_limit", limiter.Sweep)
	if err := jobs.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start scheduler")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("env", cfg.Env).
			Strs("oauth_providers", providerNames(providers)).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// SSE streams only end when the hub closes them.
	stopHub()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	jobs.Stop(shutdownCtx)
	joinRequestHandler.Wait()
}

func newProjectCache(ctx context.Context, cfg *config.Config) cache.ProjectCache {
	if cfg.RedisURL == "" {
		return cache.Noop{}
	}

	client, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, project cache disabled")
		return cache.Noop{}
	}

	logger.Info().Dur("ttl", cfg.ProjectCacheTTL).Msg("project cache enabled")
	return cache.NewRedis(client, cfg.ProjectCacheTTL)
}

func providerNames(r oauth.Registry) []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}
