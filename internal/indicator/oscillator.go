package indicator

// RSI uses simple averages of the last period gains and losses.
// A series without losses reads exactly 100.
func RSI(closes []float64, period int) (float64, bool) {
	if period < 1 || len(closes) < period+1 {
		return 0, false
	}
	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100, true
	}
	return 100 - 100/(1+avgGain/avgLoss), true
}

// RSIHistory returns RSI over every prefix that ends inside the last
// lookback closes. Prefixes too short for RSI and zero readings are skipped.
func RSIHistory(closes []float64, period, lookback int) []float64 {
	start := len(closes) - lookback
	if start < period {
		start = period
	}
	out := make([]float64, 0, lookback)
	for i := start; i < len(closes); i++ {
		v, ok := RSI(closes[:i+1], period)
		if !ok || v == 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// MACDResult линия, сигнальная и гистограмма.
type MACDResult struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// MACD builds the line history over the trailing slow+signal window from
// running EMAs, which equals recomputing EMA(fast) and EMA(slow) on every
// prefix. Prefix indexes below fast and zero EMA readings are skipped.
func MACD(closes []float64, fast, slow, signal int) (MACDResult, bool) {
	if fast < 1 || slow < 1 || signal < 1 || len(closes) < slow+signal {
		return MACDResult{}, false
	}

	ef := newRunningEMA(fast)
	es := newRunningEMA(slow)
	from := len(closes) - slow - signal
	history := make([]float64, 0, slow+signal)

	for i, c := range closes {
		ef.push(c)
		es.push(c)
		if i < from || i < fast {
			continue
		}
		f, okF := ef.current()
		s, okS := es.current()
		if !okF || !okS || f == 0 || s == 0 {
			continue
		}
		history = append(history, f-s)
	}

	f, okF := ef.current()
	s, okS := es.current()
	if !okF || !okS {
		return MACDResult{}, false
	}
	if len(history) < signal {
		return MACDResult{}, false
	}
	sig, ok := EMA(history, signal)
	if !ok {
		return MACDResult{}, false
	}
	line := f - s
	return MACDResult{Line: line, Signal: sig, Histogram: line - sig}, true
}
