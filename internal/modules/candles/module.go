package candles

import (
	"signal_bot/internal/helper"
	"signal_bot/internal/modules/candles/service"
	"signal_bot/internal/modules/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("candles",
		fx.Provide(
			func(cfg *config.Config) (*service.Store, error) {
				tf, err := helper.TFSeconds(cfg.Market.Timeframe)
				if err != nil {
					return nil, err
				}
				return service.NewStore(service.Config{
					Timeframe:  tf,
					MaxCandles: cfg.Market.MaxCandles,
				})
			},
		),
	)
}
