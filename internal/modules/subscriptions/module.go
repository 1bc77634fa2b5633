package subscriptions

import (
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/subscriptions/service"
	"signal_bot/internal/modules/subscriptions/service/pg"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

// без БД работаем на статических подписках из конфига
func newSources(cfg *config.Config, tx *db.PgTxManager) (service.Source, service.Journal) {
	if tx == nil {
		logger.Info("subscriptions: static, %d pairs -> %d admin chats",
			len(cfg.Market.Pairs), len(cfg.Telegram.AdminChatIDs))
		return service.NewStatic(cfg.Market.Pairs, cfg.Telegram.AdminChatIDs), service.NopJournal{}
	}
	repo := pg.New(tx)
	return repo, repo
}

func Module() fx.Option {
	return fx.Module("subscriptions",
		fx.Provide(newSources),
	)
}
