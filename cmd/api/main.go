package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leozw/clerk-user-sync/internal/api"
	"github.com/leozw/clerk-user-sync/internal/api/handlers"
	"github.com/leozw/clerk-user-sync/internal/config"
	"github.com/leozw/clerk-user-sync/internal/db"
	"github.com/leozw/clerk-user-sync/internal/metrics"
	"github.com/leozw/clerk-user-sync/internal/webhook"
	"github.com/leozw/clerk-user-sync/pkg/clerk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Setup logger
	logger, err := newLogger(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Database
	if cfg.Database.AutoMigrate {
		version, err := db.Migrate(cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Database schema up to date", zap.Uint("version", version))
	}

	database, err := db.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	repo := db.NewRepository(database)

	// Webhook signature verification. Without a usable secret the service
	// still starts and answers every webhook with 500.
	var verifier webhook.Verifier
	if v, err := webhook.NewSvixVerifier(cfg.Clerk.WebhookSecret); err != nil {
		logger.Error("Webhook verification disabled", zap.Error(err))
	} else {
		verifier = v
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsCollector := metrics.NewCollector(reg)

	clerkClient := clerk.NewClient(cfg.Clerk, logger)
	handler := handlers.NewHandler(repo, clerkClient, verifier, metricsCollector, logger)

	// API Server
	server := api.NewServer(cfg, handler, reg, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("API server started", zap.String("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
