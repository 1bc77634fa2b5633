package pricecache

import (
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/pricecache/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("pricecache",
		fx.Provide(
			func(cfg *config.Config) *service.Cache {
				return service.NewCache(cfg.Market.PriceCacheTTL)
			},
		),
	)
}
