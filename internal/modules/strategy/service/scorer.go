package service

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
)

// границы RSI с противоположной стороны полосы зафиксированы
const (
	longRSICeiling  = 65.0
	shortRSIFloor   = 35.0
	rsiIdealLow     = 45.0
	rsiIdealHigh    = 55.0
	histogramShare  = 0.1
	strongMomentum  = 0.01
	goodMomentum    = 0.005
	veryHighVolume  = 2.0
	highVolume      = 1.5
	bbStrongEdge    = 0.3
	bbEdge          = 0.5
	bbStrongEdgeTop = 0.7
)

// Scorer быстрый отсев + глубокий скоринг. Состояния не хранит.
type Scorer struct {
	p     Params
	suite IndicatorSuite
	now   func() time.Time
}

type ScorerOption func(*Scorer)

func WithSuite(s IndicatorSuite) ScorerOption {
	return func(sc *Scorer) { sc.suite = s }
}

func WithClock(now func() time.Time) ScorerOption {
	return func(sc *Scorer) { sc.now = now }
}

func NewScorer(p Params, opts ...ScorerOption) *Scorer {
	sc := &Scorer{p: p, now: time.Now}
	for _, opt := range opts {
		opt(sc)
	}
	if sc.suite == nil {
		sc.suite = NewSuite(p)
	}
	return sc
}

func (s *Scorer) Params() Params { return s.p }

// QuickScreen отсекает пары, где быстрая и медленная EMA почти совпадают.
func (s *Scorer) QuickScreen(candles []models.Candle) bool {
	if len(candles) < s.p.QuickScreenCandles {
		return false
	}
	closes := models.Closes(candles)
	fast, okF := indicator.EMA(closes, s.p.EMAFast)
	slow, okS := indicator.EMA(closes, s.p.EMASlow)
	if !okF || !okS || slow == 0 {
		return false
	}
	return math.Abs(fast-slow)/slow > s.p.QuickScreenSpread
}

// Analyze возвращает сигнал, если ветка набрала MinScore.
func (s *Scorer) Analyze(pair string, candles []models.Candle) (models.Signal, bool) {
	if !s.QuickScreen(candles) {
		return models.Signal{}, false
	}
	if len(candles) < s.p.DeepCandles {
		return models.Signal{}, false
	}
	r, ok := s.suite.Compute(candles)
	if !ok {
		return models.Signal{}, false
	}
	side, ok := Branch(r)
	if !ok {
		return models.Signal{}, false
	}
	score, reasons := s.Score(side, r)
	if score < s.p.MinScore {
		return models.Signal{}, false
	}

	return models.Signal{
		ID:        uuid.New(),
		Pair:      pair,
		Side:      side,
		Score:     score,
		Entry:     r.Price,
		Levels:    CalcTPSL(r.Price, side, r.ATR),
		Reasons:   reasons,
		CreatedAt: s.now().UTC(),
	}, true
}

// Branch LONG при fast > slow > trend, SHORT при fast < slow < trend.
func Branch(r Readings) (models.Side, bool) {
	switch {
	case r.EMAFast > r.EMASlow && r.EMASlow > r.EMATrend:
		return models.SideLong, true
	case r.EMAFast < r.EMASlow && r.EMASlow < r.EMATrend:
		return models.SideShort, true
	default:
		return 0, false
	}
}

// Score суммирует баллы ветки и причины в порядке начисления.
func (s *Scorer) Score(side models.Side, r Readings) (int, []string) {
	var (
		score   int
		reasons []string
	)
	add := func(points int, format string, args ...any) {
		score += points
		reasons = append(reasons, fmt.Sprintf(format, args...))
	}
	p := s.p

	switch side {
	case models.SideLong:
		add(20, "Uptrend (EMA %d>%d>%d)", p.EMAFast, p.EMASlow, p.EMATrend)
		if r.EMALongTrend != 0 && r.Price > r.EMALongTrend {
			add(10, "Price above EMA%d", p.EMALongTrend)
		}
		if r.RSI > p.RSIOversold && r.RSI < longRSICeiling {
			s.addRSI(add, r.RSI)
		}
		if r.MACD.Line > r.MACD.Signal {
			add(15, "MACD bullish")
			if r.MACD.Histogram > 0 && math.Abs(r.MACD.Histogram) > math.Abs(r.MACD.Line)*histogramShare {
				add(5, "MACD histogram rising")
			}
		}
		if pos, ok := r.Bands.Position(r.Price); ok {
			switch {
			case pos < bbStrongEdge:
				add(15, "Bounce off lower BB (strong)")
			case pos < bbEdge:
				add(10, "Bounce off lower BB")
			}
		}
		s.addVolume(add, r.Volume)
		s.addMomentum(add, (r.EMAFast-r.EMASlow)/r.EMASlow)
		if r.Divergence == indicator.DivergenceBullish {
			add(15, "Bullish divergence")
		}

	case models.SideShort:
		add(20, "Downtrend (EMA %d<%d<%d)", p.EMAFast, p.EMASlow, p.EMATrend)
		if r.EMALongTrend != 0 && r.Price < r.EMALongTrend {
			add(10, "Price below EMA%d", p.EMALongTrend)
		}
		if r.RSI > shortRSIFloor && r.RSI < p.RSIOverbought {
			s.addRSI(add, r.RSI)
		}
		if r.MACD.Line < r.MACD.Signal {
			add(15, "MACD bearish")
			if r.MACD.Histogram < 0 && math.Abs(r.MACD.Histogram) > math.Abs(r.MACD.Line)*histogramShare {
				add(5, "MACD histogram falling")
			}
		}
		if pos, ok := r.Bands.Position(r.Price); ok {
			switch {
			case pos > bbStrongEdgeTop:
				add(15, "Pullback from upper BB (strong)")
			case pos > bbEdge:
				add(10, "Pullback from upper BB")
			}
		}
		s.addVolume(add, r.Volume)
		s.addMomentum(add, (r.EMASlow-r.EMAFast)/r.EMASlow)
		if r.Divergence == indicator.DivergenceBearish {
			add(15, "Bearish divergence")
		}
	}
	return score, reasons
}

type addFunc func(points int, format string, args ...any)

func (s *Scorer) addRSI(add addFunc, rsi float64) {
	if rsi >= rsiIdealLow && rsi <= rsiIdealHigh {
		add(20, "RSI ideal (%.1f)", rsi)
		return
	}
	add(15, "RSI acceptable (%.1f)", rsi)
}

func (s *Scorer) addVolume(add addFunc, v float64) {
	switch {
	case v > veryHighVolume:
		add(10, "Very high volume (%.1fx)", v)
	case v > highVolume:
		add(7, "High volume (%.1fx)", v)
	}
}

func (s *Scorer) addMomentum(add addFunc, m float64) {
	switch {
	case m > strongMomentum:
		add(10, "Very strong momentum")
	case m > goodMomentum:
		add(7, "Strong momentum")
	}
}
