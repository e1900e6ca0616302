package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/app"
	"github.com/careerhub/career-api/internal/config"
	"github.com/careerhub/career-api/internal/email"
	"github.com/careerhub/career-api/internal/observability"
	"github.com/careerhub/career-api/internal/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs, err := persistence.OpenStore(ctx, *cfg, logger)
	if err != nil {
		logger.Fatal("failed to open document store", zap.Error(err))
	}
	logger.Info("document store ready", zap.String("driver", cfg.Store.Driver))

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	mailer := email.NewSMTPMailer(cfg.Mail)
	if !mailer.Enabled() {
		logger.Warn("SMTP_HOST not provided; outgoing email is disabled")
	}

	application := app.New(*cfg, app.Dependencies{
		Store:   docs,
		Redis:   redis,
		Mailer:  mailer,
		Logger:  logger,
		Metrics: observability.NewMetrics(),
	})

	if cfg.Store.Seed {
		if err := application.Seed(ctx, *cfg, logger); err != nil {
			logger.Fatal("failed to seed store", zap.Error(err))
		}
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := application.Fiber.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := application.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := docs.Close(closeCtx); err != nil {
		logger.Error("close document store", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
