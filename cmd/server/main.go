package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/proctorhub/proctoring-service/internal/cache"
	"github.com/proctorhub/proctoring-service/internal/config"
	"github.com/proctorhub/proctoring-service/internal/handlers"
	"github.com/proctorhub/proctoring-service/internal/identity"
	"github.com/proctorhub/proctoring-service/internal/repositories/factory"
	"github.com/proctorhub/proctoring-service/internal/services"
	"github.com/proctorhub/proctoring-service/internal/utils"
	"github.com/proctorhub/proctoring-service/internal/validator"
	"github.com/proctorhub/proctoring-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	ctx := context.Background()

	provider := factory.NewProvider(cfg, logger)
	store := provider.Store(ctx)
	logger.Info("Storage backend selected", "backend", store.Backend())

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	var cacheService cache.CacheService
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.LogError(err, "Redis unavailable, continuing without cache")
		} else {
			defer redisClient.Close()
			cacheService = cache.NewRedisCache(redisClient, logger)
		}
	}

	service := services.NewProctoringService(store, publisher, cacheService, validator.New(), logger)

	verifier := identity.NewVerifier(cfg)
	if !verifier.Configured() {
		logger.Warn("Identity provider not configured, ops routes are unauthenticated")
	}

	ops := handlers.NewOpsHandler(service, store.Backend(), store.Ping, logger)
	router := gin.New()
	handlers.SetupRoutes(router, ops, verifier, service, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting proctoring service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "HTTP server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Forced shutdown")
	}
}
