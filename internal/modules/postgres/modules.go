package postgres

import (
	"context"
	"time"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// newTxManager nil, если DSN не задан: тогда подписки статические.
func newTxManager(lc fx.Lifecycle, cfg *config.Config) (*db.PgTxManager, error) {
	if cfg.DB == "" {
		logger.Info("postgres: db_dsn is empty, skipping")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
	if err != nil {
		return nil, errors.Wrap(err, "postgres")
	}
	tx := db.NewPgTxManager(pool)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			tx.Close()
			return nil
		},
	})
	return tx, nil
}

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(newTxManager),
	)
}
