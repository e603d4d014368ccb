package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/ZYX-Studios/v0-nevha-sub002/internal/api/http"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/api/http/handlers"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/auth"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/capability"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/config"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/events"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/observability"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/persistence"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/ratelimit"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/repository"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/service"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/token"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/worker"
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

	store, err := persistence.OpenAccessStore(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to open access store", zap.Error(err))
	}
	defer store.Close()

	if cfg.Postgres.RunMigrations {
		if err := store.Migrate(ctx, persistence.DefaultMigrationsDir); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	sessionCodec, err := token.NewCodec(cfg.Session.Secret)
	if err != nil {
		logger.Fatal("session codec", zap.Error(err))
	}
	lookupCodec, err := token.NewCodec(cfg.Lookup.TokenSecret)
	if err != nil {
		logger.Fatal("lookup codec", zap.Error(err))
	}
	tokenMgr, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	if err != nil {
		logger.Fatal("token manager", zap.Error(err))
	}

	pool := store.Pool()
	departmentRepo := repository.NewDepartmentRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	directoryRepo := repository.NewDirectoryRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewAsyncDispatcher(logger, events.DefaultHandlerTimeout)
	worker.StartActivityWorker(service.NewActivityService(dispatcher, departmentRepo, profileRepo, logger))

	sessions := auth.NewSessionManager(sessionCodec, departmentRepo, cfg.Session.TTL())
	guard := auth.NewGuard(tokenMgr, profileRepo, sessions, logger)
	authMiddleware := auth.NewAuthMiddleware(guard, metrics)

	departmentAuth := service.NewDepartmentAuthService(departmentRepo, sessions, dispatcher, logger)
	staffAuth := service.NewStaffAuthService(profileRepo, tokenMgr, dispatcher, logger)
	departmentAdmin := service.NewDepartmentAdminService(departmentRepo, cfg.Auth.BcryptCost, dispatcher, logger)
	lookup := service.NewLookupService(directoryRepo, capability.NewMinter(lookupCodec), cfg.Lookup.TokenTTL(), cfg.Lookup.MaxResults)

	app := httptransport.NewApp(cfg.App.Name, logger, metrics)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	secure := cfg.App.IsProduction()
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store),
		Departments:    handlers.NewDepartmentAuthHandler(departmentAuth, sessions.TTL(), secure, metrics),
		Staff:          handlers.NewStaffAuthHandler(staffAuth, secure, metrics),
		Admin:          handlers.NewAdminHandler(departmentAdmin),
		Lookup:         handlers.NewLookupHandler(lookup),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
		Throttle: httptransport.LoginThrottle{
			Limiter: ratelimit.NewLimiter(ratelimit.NewMemoryStore()),
			Window:  cfg.RateLimit.LoginWindow(),
			Limit:   cfg.RateLimit.LoginLimit,
		},
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	dispatcher.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
