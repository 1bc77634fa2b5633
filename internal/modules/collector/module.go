package collector

import (
	"context"

	"signal_bot/internal/helper"
	binance "signal_bot/internal/modules/binance/service"
	candles "signal_bot/internal/modules/candles/service"
	"signal_bot/internal/modules/collector/service"
	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
	pricecache "signal_bot/internal/modules/pricecache/service"
	subs "signal_bot/internal/modules/subscriptions/service"
	"signal_bot/pkg/metrics"

	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Cfg     *config.Config
	Client  *binance.Client
	Cache   *pricecache.Cache
	Store   *candles.Store
	Source  subs.Source
	Metrics *metrics.Metrics
	State   *health.State
}

func newCollector(p Params) *service.Collector {
	return service.New(service.Deps{
		Fetcher:  p.Client,
		Cache:    p.Cache,
		Sink:     p.Store,
		Source:   p.Source,
		Defaults: p.Cfg.Market.Pairs,
		Metrics:  p.Metrics,
		State:    p.State,
	})
}

func Module() fx.Option {
	return fx.Module("collector",
		fx.Provide(newCollector),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, c *service.Collector) {
			var loop helper.Loop
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					loop.Start(func(ctx context.Context) {
						c.Run(ctx, cfg.Market.CheckInterval)
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
