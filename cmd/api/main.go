package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/zuri-pay/zuri_pay/internal/config"
	"github.com/zuri-pay/zuri_pay/internal/infra"
	"github.com/zuri-pay/zuri_pay/internal/logging"
	"github.com/zuri-pay/zuri_pay/internal/routes"
	"github.com/zuri-pay/zuri_pay/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := routes.Deps{Cfg: cfg, Logger: logger}

	if cfg.DatabaseURL != "" {
		pool, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		deps.DB = pool
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	if cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cache.Close()
		deps.Cache = cache
	} else {
		logger.Warn("REDIS_URL not set, idempotency and rate limiting disabled")
	}

	app := server.New(cfg.AppName)
	if err := routes.Setup(app, deps); err != nil {
		logger.Error("failed to set up routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Address()),
			slog.String("env", cfg.AppEnv))
		errCh <- app.Listen(cfg.Address())
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if err := app.ShutdownWithTimeout(cfg.ShutdownPeriod); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
