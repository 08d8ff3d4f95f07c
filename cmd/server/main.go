package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/fitcal/fitcal-backend/internal/config"
	"github.com/fitcal/fitcal-backend/internal/infrastructure/database"
	httpServer "github.com/fitcal/fitcal-backend/internal/infrastructure/http"
	"github.com/fitcal/fitcal-backend/internal/logger"
	"github.com/fitcal/fitcal-backend/internal/metrics"
	"github.com/fitcal/fitcal-backend/internal/notifier"
	"github.com/fitcal/fitcal-backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	// Assemble notification sinks; every sink is best-effort and optional.
	sinks := []usecase.Notifier{
		notifier.NewSlackNotifier(cfg.Notifier.SlackWebhookURL, cfg.Notifier.SlackUsername, zapLogger),
		notifier.NewSMTPNotifier(cfg.Notifier.SMTP, zapLogger),
	}
	if cfg.Notifier.Redis.Addr != "" {
		redisNotifier, err := notifier.NewRedisNotifier(cfg.Notifier.Redis, zapLogger)
		if err != nil {
			zapLogger.Warn("Redis notifier disabled", zap.Error(err))
		} else {
			defer redisNotifier.Close()
			sinks = append(sinks, redisNotifier)
		}
	}
	multiNotifier := notifier.NewMulti(sinks...)

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize and start HTTP server
	httpSrv := httpServer.NewServer(cfg, zapLogger, repos, multiNotifier, collector, registry)

	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down server...")

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}
