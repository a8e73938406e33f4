package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/t2dm-treatment-advisor/internal/api"
	"github.com/t2dm-treatment-advisor/internal/cache"
	"github.com/t2dm-treatment-advisor/internal/config"
	"github.com/t2dm-treatment-advisor/internal/database"
	"github.com/t2dm-treatment-advisor/internal/domain"
	"github.com/t2dm-treatment-advisor/internal/engine"
	"github.com/t2dm-treatment-advisor/internal/feedback"
	"github.com/t2dm-treatment-advisor/internal/repository"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting T2DM treatment advisor")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ruleEngine := engine.NewEngine(logger)

	evalCache, err := cache.New(cfg.Cache, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize evaluation cache")
	}
	defer evalCache.Close()

	opts := api.Options{Cache: evalCache}

	// Optional Postgres-backed audit trail
	if cfg.Database.Enabled {
		runner, err := database.NewMigrationRunner(
			configManager.GetDatabaseConnectionString(), cfg.Database.MigrationsPath, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create migration runner")
		}
		if err := runner.Up(); err != nil {
			logger.WithError(err).Fatal("Failed to run migrations")
		}
		runner.Close()

		db, err := database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		opts.Audit = repository.NewEvaluationRepository(db.Pool, logger)
	}

	// Clinician feedback store
	switch cfg.Feedback.Backend {
	case "sqlite":
		store, err := feedback.NewSQLiteStore(cfg.Feedback.SQLitePath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open SQLite feedback store")
		}
		defer store.Close()
		opts.Feedback = store
	case "postgres":
		store, err := feedback.NewPostgresStoreFromURL(configManager.GetDatabaseConnectionString())
		if err != nil {
			logger.WithError(err).Fatal("Failed to open Postgres feedback store")
		}
		defer store.Close()
		opts.Feedback = store
	}

	server := api.NewServer(configManager, ruleEngine, opts, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
