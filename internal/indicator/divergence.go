package indicator

type Divergence uint8

const (
	DivergenceNone Divergence = iota
	DivergenceBullish
	DivergenceBearish
)

func (d Divergence) String() string {
	switch d {
	case DivergenceBullish:
		return "bullish"
	case DivergenceBearish:
		return "bearish"
	default:
		return "none"
	}
}

// DivergenceParams: PricePct is a fraction (0.02 == 2%), OscPoints is in
// oscillator units.
type DivergenceParams struct {
	Window    int
	PricePct  float64
	OscPoints float64
}

func DefaultDivergenceParams() DivergenceParams {
	return DivergenceParams{Window: 20, PricePct: 0.02, OscPoints: 5}
}

// DetectDivergence compares the first and last point of the trailing window
// of both series.
func DetectDivergence(closes, osc []float64, p DivergenceParams) Divergence {
	if p.Window < 2 || len(closes) < p.Window || len(osc) < p.Window {
		return DivergenceNone
	}
	price := closes[len(closes)-p.Window:]
	o := osc[len(osc)-p.Window:]

	first, last := price[0], price[len(price)-1]
	if first == 0 {
		return DivergenceNone
	}
	priceChange := (last - first) / first
	oscChange := o[len(o)-1] - o[0]

	switch {
	case priceChange < -p.PricePct && oscChange > p.OscPoints:
		return DivergenceBullish
	case priceChange > p.PricePct && oscChange < -p.OscPoints:
		return DivergenceBearish
	default:
		return DivergenceNone
	}
}
