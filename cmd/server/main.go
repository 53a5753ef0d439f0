package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/cache"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/config"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/handlers"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories/postgres"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/services"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/utils"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/validator"
	"github.com/EyalShefer/ai-lms-system-sub004/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// ── Dependencies ────────────────────────────────────────────────
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	repo := postgres.NewRepository(db)
	defer repo.Close()

	var cacheService cache.CacheService
	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		cacheService = cache.NewRedisCache(client, logger)
	} else {
		logger.Info("Redis not configured, using in-memory cache", "capacity", cfg.CacheSize)
		cacheService = cache.NewMemoryCache(cfg.CacheSize)
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	v := validator.New()
	serviceManager := services.NewServiceManager(repo, cacheService, publisher, v, logger)

	// ── Routes ──────────────────────────────────────────────────────
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := utils.NewSlogLogger(logger)
	router := gin.New()
	router.Use(utils.LoggerMiddleware(appLogger))
	router.Use(gin.Recovery())

	handlerManager := handlers.NewHandlerManager(serviceManager, repo, v, appLogger)
	handlerManager.SetupRoutes(router)

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		logger.Info("Shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server forced to shutdown", "error", err)
		}
	}()

	logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
