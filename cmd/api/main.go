package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/service-requests/internal/api/http"
	"github.com/spec-kit/service-requests/internal/api/http/handlers"
	"github.com/spec-kit/service-requests/internal/auth"
	"github.com/spec-kit/service-requests/internal/config"
	"github.com/spec-kit/service-requests/internal/events"
	"github.com/spec-kit/service-requests/internal/observability"
	"github.com/spec-kit/service-requests/internal/persistence"
	"github.com/spec-kit/service-requests/internal/repository"
	"github.com/spec-kit/service-requests/internal/service"
	"github.com/spec-kit/service-requests/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	requestRepo := repository.NewServiceRequestRepository(pool)
	sessionRepo := repository.NewSessionRepository(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	notifications := worker.StartNotificationWorker(
		dispatcher,
		service.NewNotificationService(logger, cfg.Notification),
		logger,
		cfg.Notification.QueueSize,
	)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	requestService := service.NewRequestService(service.RequestDependencies{
		RequestRepo: requestRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService, auth.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.CookieSecure,
	})

	metrics := observability.NewMetrics()

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Users:          handlers.NewUsersHandler(authService, authMiddleware, metrics),
		Requests:       handlers.NewRequestsHandler(requestService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics.Handler(),
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := notifications.Stop(stopCtx); err != nil {
		logger.Warn("notification worker did not drain", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
