package delivery

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/delivery/service"
	subs "signal_bot/internal/modules/subscriptions/service"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/metrics"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
)

func newSender(cfg *config.Config) (service.Sender, error) {
	if cfg.Telegram.Token == "" {
		logger.Warn("telegram token is empty, signals go to the log only")
		return service.LogSender{}, nil
	}
	bot, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	logger.Info("telegram: authorized as @%s", bot.Self.UserName)
	return bot, nil
}

func newBroadcaster(cfg *config.Config, sender service.Sender) *service.Broadcaster {
	return service.NewBroadcaster(sender, service.BatchConfig{
		Size:       cfg.Delivery.BatchSize,
		Delay:      cfg.Delivery.BatchDelay,
		Pause:      cfg.Delivery.BatchPause,
		MaxRetries: cfg.Delivery.MaxRetries,
	})
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config) service.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return service.NopPublisher{}
	}
	p := service.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return p.Close() },
	})
	return p
}

func newDispatcher(bc *service.Broadcaster, p service.Publisher, j subs.Journal, m *metrics.Metrics) *service.Dispatcher {
	return service.NewDispatcher(bc, p, j, m)
}

func Module() fx.Option {
	return fx.Module("delivery",
		fx.Provide(
			newSender,
			newBroadcaster,
			newPublisher,
			newDispatcher,
		),
	)
}
