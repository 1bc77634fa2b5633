package bootstrap

import (
	"context"

	"signal_bot/internal/helper"
	binance "signal_bot/internal/modules/binance/service"
	bootstrap "signal_bot/internal/modules/bootstrap/service"
	candles "signal_bot/internal/modules/candles/service"
	collector "signal_bot/internal/modules/collector/service"
	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

func newImporter(cfg *config.Config, c *binance.Client, store *candles.Store) *bootstrap.Importer {
	return bootstrap.NewImporter(c, store, bootstrap.Config{
		Timeframe: cfg.Market.Timeframe,
		Count:     cfg.Exchange.HistoryCandles,
		Parallel:  cfg.Exchange.ImportParallel,
	})
}

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(newImporter),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, im *bootstrap.Importer, col *collector.Collector, state *health.State) {
			if !cfg.Exchange.ImportHistory {
				state.SetReady(true)
				return
			}

			var loop helper.Loop
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					loop.Start(func(ctx context.Context) {
						pairs := col.Pairs(ctx)
						res, err := im.Import(ctx, pairs)
						if err != nil {
							// сервис живой и без истории, просто дольше копит свечи
							logger.Error("[BOOT] history import: %v", err)
						}
						logger.Info("[BOOT] history import done: %d/%d pairs", len(res), len(pairs))
						state.SetReady(true)
					})
					return nil
				},
				OnStop: func(context.Context) error {
					loop.Stop()
					return nil
				},
			})
		}),
	)
}
