package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/snapsbooking/bookngon-api/internal/api/router"
	"github.com/snapsbooking/bookngon-api/internal/archive"
	"github.com/snapsbooking/bookngon-api/internal/booking"
	appconfig "github.com/snapsbooking/bookngon-api/internal/config"
	"github.com/snapsbooking/bookngon-api/internal/http/handlers"
	"github.com/snapsbooking/bookngon-api/internal/observability/metrics"
	"github.com/snapsbooking/bookngon-api/internal/sessions"
	"github.com/snapsbooking/bookngon-api/internal/snaps"
	"github.com/snapsbooking/bookngon-api/pkg/logging"
)

func main() {
	// Load .env in development; ignore when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting bookngon API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Redis-backed session persistence
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	sessionStore := sessions.NewRedisStore(redisClient, cfg.SessionTTL)

	// Optional appointment archive
	var recorder booking.ConfirmationRecorder
	var archiveHandler *handlers.ArchiveHandler
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo := archive.NewRepository(pool)
		recorder = repo
		archiveHandler = handlers.NewArchiveHandler(repo, logger)
		logger.Info("appointment archive enabled")
	}

	platform := snaps.NewClient(cfg.PlatformBaseURL, cfg.Timezone, logger)
	bookingMetrics := metrics.NewBookingMetrics(nil)

	sessionHandler := handlers.NewSessionHandler(sessionStore, platform, recorder, bookingMetrics, logger)
	catalogHandler := handlers.NewCatalogHandler(platform, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		SessionHandler:     sessionHandler,
		CatalogHandler:     catalogHandler,
		ArchiveHandler:     archiveHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		logger.Warn("failed to close redis client", "error", err)
	}

	logger.Info("server stopped")
}
