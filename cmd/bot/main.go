package main

import (
	"log"

	"signal_bot/internal/modules/analyzer"
	"signal_bot/internal/modules/binance"
	"signal_bot/internal/modules/bootstrap"
	"signal_bot/internal/modules/candles"
	"signal_bot/internal/modules/collector"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/cooldown"
	"signal_bot/internal/modules/delivery"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/postgres"
	"signal_bot/internal/modules/pricecache"
	"signal_bot/internal/modules/strategy"
	"signal_bot/internal/modules/subscriptions"
	"signal_bot/internal/modules/tracing"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.Init(cfg.Service.Name, cfg.Service.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.L().WithOptions(zap.IncreaseLevel(zap.WarnLevel))}
		}),
		config.Module(cfg),
		tracing.Module(),
		health.Module(),
		postgres.Module(),
		subscriptions.Module(),

		pricecache.Module(),
		candles.Module(),
		strategy.Module(),
		cooldown.Module(),
		delivery.Module(),

		binance.Module(),
		collector.Module(),
		bootstrap.Module(),
		analyzer.Module(),
	)
	app.Run()
}
