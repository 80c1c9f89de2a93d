package app

import (
	"context"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/vitum_backend/config"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	"github.com/Alijeyrad/vitum_backend/internal/store/migrate"
	"github.com/Alijeyrad/vitum_backend/pkg/database"
	"github.com/Alijeyrad/vitum_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/vitum_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideDriver),
	fx.Provide(ProvideStore),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideOTel),
)

func ProvideDriver(lc fx.Lifecycle, cfg *config.Config) (*entsql.Driver, error) {
	drv, err := database.NewDriver(cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Database.Migrations.AutoMigrate {
				return nil
			}
			slog.Info("applying schema migrations")
			return migrate.Create(ctx, drv, migrate.Options{DropColumns: cfg.Database.Migrations.DropColumns})
		},
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing database connection")
			return drv.Close()
		},
	})
	return drv, nil
}

func ProvideStore(drv *entsql.Driver) *store.Store {
	return store.New(drv)
}

// ProvideRedis yields a nil client when Redis is disabled; consumers fall
// back to in-process behaviour.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
