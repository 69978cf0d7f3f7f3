package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/backoffice/internal/handlers"
	"github.com/Ramsey-B/backoffice/pkg/health"
	"github.com/Ramsey-B/backoffice/pkg/importer"
	"github.com/Ramsey-B/backoffice/pkg/middleware"
	"github.com/Ramsey-B/backoffice/pkg/repositories"
	"github.com/Ramsey-B/backoffice/pkg/scheduler"
	"github.com/Ramsey-B/backoffice/pkg/tracing"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the scheduled import",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply database migrations on start")
	return cmd
}

func runServe(ctx context.Context, migrations bool) error {
	a, sync, err := loadApp()
	if err != nil {
		return err
	}
	defer sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, a.cfg.Tracing())
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}

	if err := a.connect(ctx, connectOptions{migrations: migrations, redis: true, kafka: true}); err != nil {
		return err
	}

	checker := health.NewChecker(a.cfg.Version).AddProbe("database", health.DatabaseProbe(a.sqlDB))
	if a.redis != nil {
		checker.AddOptionalProbe("redis", health.RedisProbe(a.redis.Redis()))
	}

	factory := a.importFactory(importOptions{stopOn: a.cfg.ImportStopOn})
	sched, err := a.schedule(factory)
	if err != nil {
		a.close(context.Background())
		return err
	}

	e := newServer(a, checker, factory)
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", a.cfg.Port),
		ReadTimeout:    time.Duration(a.cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(a.cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:    time.Duration(a.cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		MaxHeaderBytes: a.cfg.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof("Starting %s on %s", a.cfg.AppName, srv.Addr)
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()
	if sched != nil {
		sched.Start()
	}
	checker.SetReady(true)

	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			a.logger.WithError(err).Error("HTTP server stopped")
		}
	}

	checker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("failed to shut down HTTP server")
	}
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			a.logger.WithError(err).Warn("scheduled import did not stop in time")
		}
	}
	a.close(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("failed to flush traces")
	}
	return nil
}

func newServer(a *app, checker *health.Checker, factory handlers.ImportFactory) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(a.logger)

	e.Use(echomiddleware.Recover())
	e.Use(otelecho.Middleware(a.cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(a.logger))
	e.Use(echomiddleware.BodyLimit(a.cfg.MaxBodyBytes))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: a.cfg.AllowOrigins,
		AllowMethods: a.cfg.AllowMethods,
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	checker.RegisterRoutes(api)
	handlers.RegisterLookupRoutes(api, a.lookupStores())
	handlers.NewMerchantHandler(repositories.NewMerchantRepository(a.db, a.logger)).RegisterRoutes(api)
	handlers.NewReportHandler(a.logger).RegisterRoutes(api)
	handlers.NewImportHandler(factory, a.logger).RegisterRoutes(api)
	return e
}

// schedule registers the recurring import when IMPORT_SCHEDULE is set.
func (a *app) schedule(factory handlers.ImportFactory) (*scheduler.Scheduler, error) {
	if a.cfg.ImportSchedule == "" {
		return nil, nil
	}
	policy, err := importer.ParseOnConflict(a.cfg.ImportOnConflict)
	if err != nil {
		return nil, fmt.Errorf("IMPORT_SCHEDULE requires IMPORT_ON_CONFLICT: %w", err)
	}

	sched := scheduler.New(a.logger)
	_, err = sched.Add("merchant-import", a.cfg.ImportSchedule, func(ctx context.Context) error {
		runner, err := factory(policy, a.cfg.ImportReset)
		if err != nil {
			return err
		}
		_, err = runner.Run(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sched, nil
}
