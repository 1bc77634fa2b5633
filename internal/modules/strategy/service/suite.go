package service

import (
	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
)

// Readings всё, что нужно скорингу от глубокого прохода.
type Readings struct {
	Price float64

	EMAFast      float64
	EMASlow      float64
	EMATrend     float64
	EMALongTrend float64

	RSI        float64
	MACD       indicator.MACDResult
	Bands      indicator.Bands
	Volume     float64
	ATR        float64
	Divergence indicator.Divergence
}

// IndicatorSuite дорогой набор индикаторов. ok=false если хоть одного нет.
type IndicatorSuite interface {
	Compute(candles []models.Candle) (Readings, bool)
}

type deepSuite struct {
	p Params
}

func NewSuite(p Params) IndicatorSuite { return deepSuite{p: p} }

func (s deepSuite) Compute(candles []models.Candle) (Readings, bool) {
	if len(candles) == 0 {
		return Readings{}, false
	}
	p := s.p
	closes := models.Closes(candles)

	var (
		r   = Readings{Price: closes[len(closes)-1]}
		oks [9]bool
	)
	r.EMAFast, oks[0] = indicator.EMA(closes, p.EMAFast)
	r.EMASlow, oks[1] = indicator.EMA(closes, p.EMASlow)
	r.EMATrend, oks[2] = indicator.EMA(closes, p.EMATrend)
	r.EMALongTrend, oks[3] = indicator.EMA(closes, p.EMALongTrend)
	r.RSI, oks[4] = indicator.RSI(closes, p.RSIPeriod)
	r.MACD, oks[5] = indicator.MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	r.Bands, oks[6] = indicator.Bollinger(closes, p.BBPeriod, p.BBStd)
	r.Volume, oks[7] = indicator.VolumeStrength(candles, p.VolumePeriod)
	r.ATR, oks[8] = indicator.ATR(candles, p.ATRPeriod)
	for _, ok := range oks {
		if !ok {
			return Readings{}, false
		}
	}

	history := indicator.RSIHistory(closes, p.RSIPeriod, p.RSIHistory)
	if len(history) >= p.Divergence.Window {
		recent := closes
		if len(recent) > p.RSIHistory {
			recent = recent[len(recent)-p.RSIHistory:]
		}
		r.Divergence = indicator.DetectDivergence(recent, history, p.Divergence)
	}
	return r, true
}
