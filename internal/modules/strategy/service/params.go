package service

import "signal_bot/internal/indicator"

// Params периоды и пороги скоринга.
type Params struct {
	EMAFast      int
	EMASlow      int
	EMATrend     int
	EMALongTrend int

	RSIPeriod     int
	RSIOversold   float64
	RSIOverbought float64
	// RSIHistory сколько последних закрытий участвуют в поиске дивергенции.
	RSIHistory int

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	BBPeriod int
	BBStd    float64

	VolumePeriod int
	ATRPeriod    int

	Divergence indicator.DivergenceParams

	QuickScreenCandles int
	QuickScreenSpread  float64
	DeepCandles        int

	MinScore int
}

func DefaultParams() Params {
	return Params{
		EMAFast:      9,
		EMASlow:      21,
		EMATrend:     50,
		EMALongTrend: 200,

		RSIPeriod:     14,
		RSIOversold:   35,
		RSIOverbought: 65,
		RSIHistory:    50,

		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,

		BBPeriod: 20,
		BBStd:    2,

		VolumePeriod: 20,
		ATRPeriod:    14,

		Divergence: indicator.DefaultDivergenceParams(),

		QuickScreenCandles: 60,
		QuickScreenSpread:  0.002,
		DeepCandles:        250,

		MinScore: 85,
	}
}
