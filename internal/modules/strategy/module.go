package strategy

import (
	"signal_bot/internal/indicator"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/strategy/service"

	"go.uber.org/fx"
)

// NewParams переносит секцию strategy конфига в параметры скоринга.
func NewParams(cfg *config.Config) service.Params {
	s := cfg.Strategy
	return service.Params{
		EMAFast:       s.EMAFast,
		EMASlow:       s.EMASlow,
		EMATrend:      s.EMATrend,
		EMALongTrend:  s.EMALongTrend,
		RSIPeriod:     s.RSIPeriod,
		RSIOversold:   s.RSIOversold,
		RSIOverbought: s.RSIOverbought,
		RSIHistory:    s.RSIHistory,
		MACDFast:      s.MACDFast,
		MACDSlow:      s.MACDSlow,
		MACDSignal:    s.MACDSignal,
		BBPeriod:      s.BBPeriod,
		BBStd:         s.BBStd,
		VolumePeriod:  s.VolumePeriod,
		ATRPeriod:     s.ATRPeriod,
		Divergence: indicator.DivergenceParams{
			Window:    s.DivergenceWindow,
			PricePct:  s.DivergencePricePct,
			OscPoints: s.DivergenceRSIPoints,
		},
		QuickScreenCandles: s.QuickScreenCandles,
		QuickScreenSpread:  s.QuickScreenSpread,
		DeepCandles:        s.DeepCandles,
		MinScore:           s.MinScore,
	}
}

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			NewParams,
			func(p service.Params) *service.Scorer {
				return service.NewScorer(p)
			},
		),
	)
}
