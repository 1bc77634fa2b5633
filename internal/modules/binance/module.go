package binance

import (
	"context"

	"signal_bot/internal/helper"
	"signal_bot/internal/modules/binance/service"
	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
	pricecache "signal_bot/internal/modules/pricecache/service"
	"signal_bot/pkg/metrics"

	"go.uber.org/fx"
)

func newClient(cfg *config.Config) *service.Client {
	return service.NewClient(service.Config{
		RestURL: cfg.Exchange.RestURL,
		WSURL:   cfg.Exchange.WSURL,
		Timeout: cfg.Exchange.Timeout,
	})
}

// runStream miniTicker держит PriceCache тёплым между опросами коллектора.
func runStream(lc fx.Lifecycle, cfg *config.Config, c *service.Client, cache *pricecache.Cache, state *health.State, m *metrics.Metrics) {
	if !cfg.Exchange.Stream {
		return
	}

	var loop helper.Loop
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			loop.Start(func(ctx context.Context) {
				c.StreamMiniTicker(ctx, cfg.Market.Pairs, service.StreamHooks{
					OnTicker: func(t service.Ticker) {
						cache.Set(t.Pair, t.Price, t.Volume)
					},
					OnConnected: state.SetWSConnected,
					OnReconnect: m.WSReconnects.Inc,
				})
			})
			return nil
		},
		OnStop: func(context.Context) error {
			loop.Stop()
			return nil
		},
	})
}

// Module REST-клиент Binance и опциональный WS-стрим.
func Module() fx.Option {
	return fx.Module("binance",
		fx.Provide(newClient),
		fx.Invoke(runStream),
	)
}
