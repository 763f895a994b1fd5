package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodonline/backend/config"
	"github.com/foodonline/backend/internal/database"
	"github.com/foodonline/backend/internal/logger"
	"github.com/foodonline/backend/internal/server"
	"github.com/foodonline/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg := logger.New(cfg.LogLevel, cfg.Env == config.Production)
	slog.SetDefault(lg)

	if err := run(cfg, lg); err != nil {
		lg.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, lg *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var rdb *redis.Client
	if client, err := database.NewRedisClient(ctx, cfg, lg); err != nil {
		lg.Warn("redis connection failed", slog.String("error", err.Error()))
	} else {
		rdb = client
		defer rdb.Close()
	}

	// media stays a nil interface when no bucket is configured
	var media service.MediaStore
	if cfg.S3Bucket != "" {
		store, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			lg.Warn("media storage unavailable", slog.String("error", err.Error()))
		} else {
			media = store
		}
	}

	srv := server.New(cfg, db, rdb, media, lg)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		lg.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	lg.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	lg.Info("server stopped")
	return nil
}
