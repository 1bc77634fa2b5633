package analyzer

import (
	"context"

	"signal_bot/internal/helper"
	"signal_bot/internal/modules/analyzer/service"
	candles "signal_bot/internal/modules/candles/service"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/cooldown"
	gate "signal_bot/internal/modules/cooldown/service"
	delivery "signal_bot/internal/modules/delivery/service"
	health "signal_bot/internal/modules/health/service"
	strategy "signal_bot/internal/modules/strategy/service"
	subs "signal_bot/internal/modules/subscriptions/service"
	"signal_bot/pkg/metrics"

	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Scorer     *strategy.Scorer
	Store      *candles.Store
	Gate       *gate.Gate
	Persister  cooldown.Persister
	Source     subs.Source
	Dispatcher *delivery.Dispatcher
	Metrics    *metrics.Metrics
	State      *health.State
}

func newAnalyzer(p Params) *service.Analyzer {
	return service.New(service.Deps{
		Scorer:   p.Scorer,
		Store:    p.Store,
		Gate:     p.Gate,
		Saver:    p.Persister,
		Source:   p.Source,
		Delivery: p.Dispatcher,
		Metrics:  p.Metrics,
		State:    p.State,
	})
}

func Module() fx.Option {
	return fx.Module("analyzer",
		fx.Provide(newAnalyzer),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, a *service.Analyzer) {
			var loop helper.Loop
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					loop.Start(func(ctx context.Context) {
						a.Run(ctx, cfg.Signals.AnalyzeInterval)
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
