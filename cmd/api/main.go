package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meritrix/meritrix-backend/internal/config"
	"github.com/meritrix/meritrix-backend/pkg/database"
	"github.com/meritrix/meritrix-backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Config'i yükle
	cfg := config.LoadConfig()

	zapLogger := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() { _ = zapLogger.Sync() }()

	if cfg.JWT.Secret == "" {
		zapLogger.Fatal("JWT_SECRET is not set")
	}

	// Initialize database
	db, err := database.NewDatabase(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize database", zap.Error(err))
	}
	if !cfg.IsProduction() {
		if err := database.RunMigrations(db); err != nil {
			zapLogger.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	app, cleanup, err := InitializeAPI(cfg, db, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize api", zap.Error(err))
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("server starting", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		errCh <- app.Listen(":" + cfg.App.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		zapLogger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("server error", zap.Error(err))
		}
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
