package cooldown

import (
	"context"
	"time"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/cooldown/service"
	"signal_bot/internal/modules/subscriptions/service/pg"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

// Persister сохраняет состояние гейта между рестартами.
type Persister interface {
	Save(ctx context.Context, snap service.Snapshot) error
	Load(ctx context.Context) (service.Snapshot, error)
}

type nopPersister struct{}

func (nopPersister) Save(context.Context, service.Snapshot) error { return nil }
func (nopPersister) Load(context.Context) (service.Snapshot, error) {
	return service.Snapshot{}, nil
}

func newGate(cfg *config.Config) *service.Gate {
	return service.NewGate(service.Config{
		Cooldown:     cfg.Signals.Cooldown,
		MaxPerWindow: cfg.Signals.MaxPerDay,
		Window:       cfg.Signals.Window,
	})
}

// newPersister redis, иначе журнал в Postgres (только чтение на старте), иначе ничего.
func newPersister(lc fx.Lifecycle, cfg *config.Config, tx *db.PgTxManager) (Persister, error) {
	ttl := max(cfg.Signals.Window, cfg.Signals.Cooldown)
	if cfg.Redis.Addr == "" {
		if tx != nil {
			logger.Info("cooldown: redis is not set, restoring from signal journal")
			return service.NewJournalStore(pg.New(tx), ttl), nil
		}
		return nopPersister{}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := service.NewRedisStore(ctx, service.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Key:      cfg.Redis.Key,
		TTL:      ttl,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return store.Close() },
	})
	return store, nil
}

func Module() fx.Option {
	return fx.Module("cooldown",
		fx.Provide(
			newGate,
			newPersister,
		),
		fx.Invoke(func(lc fx.Lifecycle, gate *service.Gate, p Persister) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					snap, err := p.Load(ctx)
					if err != nil {
						// без сохранённого состояния стартуем с чистого листа
						logger.Warn("cooldown restore failed: %v", err)
						return nil
					}
					gate.Restore(snap)
					logger.Info("cooldown restored: %d keys, %d pairs in window", len(snap.Last), len(snap.Emitted))
					return nil
				},
			})
		}),
	)
}
