package indicator

import (
	"math"

	"signal_bot/internal/models"
)

type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Width upper - lower.
func (b Bands) Width() float64 { return b.Upper - b.Lower }

// Position where price sits inside the band, 0 at lower and 1 at upper.
// A zero-width band has no position.
func (b Bands) Position(price float64) (float64, bool) {
	w := b.Width()
	if w == 0 {
		return 0, false
	}
	return (price - b.Lower) / w, true
}

// Bollinger uses the population standard deviation of the last period closes.
func Bollinger(closes []float64, period int, k float64) (Bands, bool) {
	middle, ok := SMA(closes, period)
	if !ok {
		return Bands{}, false
	}
	var variance float64
	for _, c := range closes[len(closes)-period:] {
		d := c - middle
		variance += d * d
	}
	std := math.Sqrt(variance / float64(period))
	return Bands{
		Upper:  middle + std*k,
		Middle: middle,
		Lower:  middle - std*k,
	}, true
}

// VolumeStrength is the latest volume over the mean of the period volumes
// before it. A zero mean reads 1.0.
func VolumeStrength(candles []models.Candle, period int) (float64, bool) {
	if period < 1 || len(candles) < period+1 {
		return 0, false
	}
	window := candles[len(candles)-period-1:]
	var sum float64
	for _, c := range window[:period] {
		sum += c.Volume
	}
	avg := sum / float64(period)
	if avg == 0 {
		return 1, true
	}
	return window[period].Volume / avg, true
}

// ATR averages the true range of the last period candles, each measured
// against the previous close.
func ATR(candles []models.Candle, period int) (float64, bool) {
	if period < 1 || len(candles) < period+1 {
		return 0, false
	}
	var sum float64
	for i := len(candles) - period; i < len(candles); i++ {
		h, l, pc := candles[i].High, candles[i].Low, candles[i-1].Close
		sum += math.Max(h-l, math.Max(math.Abs(h-pc), math.Abs(l-pc)))
	}
	return sum / float64(period), true
}
