package main

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ramsey-B/backoffice/config"
	"github.com/Ramsey-B/backoffice/internal/handlers"
	"github.com/Ramsey-B/backoffice/pkg/database"
	"github.com/Ramsey-B/backoffice/pkg/dock"
	"github.com/Ramsey-B/backoffice/pkg/importer"
	"github.com/Ramsey-B/backoffice/pkg/kafka"
	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/redis"
	"github.com/Ramsey-B/backoffice/pkg/repositories"
	"github.com/Ramsey-B/backoffice/pkg/startup"
)

// app holds the connections one command needs. Optional ones stay nil when not configured.
type app struct {
	cfg      *config.Config
	logger   ectologger.Logger
	startup  *startup.Startup
	sqlDB    *sqlx.DB
	db       database.DB
	redis    *redis.Client
	producer *kafka.Producer
}

func newLogger(cfg *config.Config) (ectologger.Logger, func(), error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.InitialFields = map[string]any{"service": cfg.AppName, "version": cfg.Version}

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil), func() { _ = zapLogger.Sync() }, nil
}

// loadApp reads the configuration and builds the logger. Nothing is connected yet.
func loadApp() (*app, func(), error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	logger, sync, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		startup: startup.NewStartup(logger, cfg.StartupMaxAttempts),
	}, sync, nil
}

type connectOptions struct {
	migrations bool
	redis      bool
	kafka      bool
}

// connect starts database, migrations, redis and kafka in dependency order with retries.
func (a *app) connect(ctx context.Context, opts connectOptions) error {
	a.startup.AddDependency(startup.Func{
		Name: "database",
		StartFunc: func(ctx context.Context) error {
			db, err := database.Open(ctx, a.cfg.Database(), a.logger)
			if err != nil {
				return err
			}
			a.sqlDB = db
			a.db = database.NewDatabaseInstance(db, a.logger)
			return nil
		},
		StopFunc: func(context.Context) error {
			if a.sqlDB == nil {
				return nil
			}
			return a.sqlDB.Close()
		},
	})

	if opts.migrations {
		a.startup.AddDependency(startup.Func{
			Name:     "migrations",
			Requires: []string{"database"},
			StartFunc: func(context.Context) error {
				svc := database.NewMigrationService(a.logger, a.cfg.Migrations())
				return svc.MigratePostgres(a.sqlDB.DB, a.cfg.DatabaseName)
			},
		})
	}

	if opts.redis && a.cfg.RedisEnabled() {
		a.startup.AddDependency(startup.Func{
			Name: "redis",
			StartFunc: func(ctx context.Context) error {
				client, err := redis.NewClient(ctx, a.cfg.Redis(), a.logger)
				if err != nil {
					return err
				}
				a.redis = client
				return nil
			},
			StopFunc: func(context.Context) error {
				if a.redis == nil {
					return nil
				}
				return a.redis.Close()
			},
		})
	}

	if opts.kafka && a.cfg.KafkaEnabled() {
		a.startup.AddDependency(startup.Func{
			Name: "kafka",
			StartFunc: func(context.Context) error {
				a.producer = kafka.NewProducer(a.cfg.Kafka(), a.logger)
				return nil
			},
			StopFunc: func(context.Context) error {
				if a.producer == nil {
					return nil
				}
				return a.producer.Close()
			},
		})
	}

	return a.startup.Start(ctx)
}

func (a *app) close(ctx context.Context) {
	if err := a.startup.Stop(ctx); err != nil {
		a.logger.WithError(err).Warn("failed to stop dependencies")
	}
}

func (a *app) lookupStores() handlers.LookupStores {
	return handlers.LookupStores{
		Categories:     repositories.NewCategoryRepository(a.db, a.logger),
		LegalNatures:   repositories.NewLegalNatureRepository(a.db, a.logger),
		SalesAgents:    repositories.NewSalesAgentRepository(a.db, a.logger),
		Configurations: repositories.NewConfigurationRepository(a.db, a.logger),
		Fees:           repositories.NewFeeTableRepository(a.db, a.logger),
	}
}

type importOptions struct {
	stopOn     []string
	closeStore bool
}

// importFactory builds a driver per run from the loaded configuration.
func (a *app) importFactory(opts importOptions) handlers.ImportFactory {
	return func(policy importer.OnConflict, reset bool) (handlers.ImportRunner, error) {
		feed, err := dock.NewClient(a.cfg.Dock(), a.logger)
		if err != nil {
			return nil, err
		}
		stopOn, err := importer.ParseFailureKinds(opts.stopOn)
		if err != nil {
			return nil, err
		}

		cfg := importer.DriverConfig{
			Store:      importer.NewSQLStore(a.db, a.logger),
			Feed:       feed,
			Policy:     policy,
			Reset:      reset,
			CloseStore: opts.closeStore,
			StopOn:     stopOn,
			LockTTL:    a.cfg.ImportLockTTL,
			Logger:     a.logger,
		}
		if a.redis != nil {
			cfg.Locker = redis.NewLocker(a.redis, a.cfg.AppName+":lock:")
		}
		if a.producer != nil {
			cfg.Events = a.producer
		}
		return importer.NewDriver(cfg)
	}
}

// validateRecord applies the API validation to seed records.
func validateRecord(item any) error {
	if err := handlers.Validate(item); err != nil {
		return err
	}
	if fee, ok := item.(*models.FeeTable); ok {
		return handlers.CheckFeeTable(fee)
	}
	return nil
}
