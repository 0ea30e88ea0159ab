package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/skynix/contact-service/internal/api/http"
	"github.com/skynix/contact-service/internal/api/http/handlers"
	"github.com/skynix/contact-service/internal/auth"
	"github.com/skynix/contact-service/internal/cache"
	"github.com/skynix/contact-service/internal/config"
	"github.com/skynix/contact-service/internal/events"
	"github.com/skynix/contact-service/internal/observability"
	"github.com/skynix/contact-service/internal/persistence"
	"github.com/skynix/contact-service/internal/queue"
	"github.com/skynix/contact-service/internal/repository"
	"github.com/skynix/contact-service/internal/service"
	"github.com/skynix/contact-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var submissions repository.SubmissionRepository
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		submissions = repository.NewSubmissionRepository(pg.Pool)
	} else {
		submissions = repository.NewMemorySubmissionRepository()
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	publisher := queue.NewPublisher(redis.Client, cfg.Redis.NotificationQueue, logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, publisher, logger, cfg.Notification))
	go worker.NewNotificationWorker(redis.Client, cfg.Redis.NotificationQueue, nil, logger).Run(ctx)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	if cfg.Auth.AdminPasswordHash == "" {
		logger.Warn("AUTH_ADMIN_PASSWORD_HASH not set; admin endpoints are unreachable")
	}

	health := map[string]handlers.Pinger{"redis": redis}
	if pg.Enabled() {
		health["postgres"] = pg
	}

	app := httptransport.NewServer(httptransport.ServerDependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Submissions: service.NewSubmissionService(service.SubmissionDependencies{
			Repo:       submissions,
			Cache:      cache.NewSubmissionCache(redis.Client, cfg.Redis.ListCacheTTL),
			Dispatcher: dispatcher,
			Metrics:    metrics,
			Logger:     logger,
		}),
		Auth:   service.NewAuthService(cfg.Auth, tokens),
		Tokens: tokens,
		Health: health,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
