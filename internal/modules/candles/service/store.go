package service

import (
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
)

var (
	ErrInvalidSample = errors.New("invalid sample")
	ErrOutOfOrder    = errors.New("sample older than current candle")
)

type Config struct {
	// Timeframe ширина свечи в секундах.
	Timeframe int64
	// MaxCandles ограничивает всю серию: закрытые + текущая.
	MaxCandles int
}

// series история закрытых свечей + текущая свеча одной пары.
type series struct {
	mu      sync.Mutex
	history []models.Candle
	current *models.Candle
}

// Store агрегирует сэмплы в свечи по парам.
// Обновление пары атомарно, чтение отдаёт копию.
type Store struct {
	tf  int64
	max int

	mu     sync.RWMutex
	series map[string]*series
}

func NewStore(cfg Config) (*Store, error) {
	if cfg.Timeframe <= 0 {
		return nil, errors.Errorf("timeframe must be positive, got %d", cfg.Timeframe)
	}
	if cfg.MaxCandles <= 0 {
		return nil, errors.Errorf("max candles must be positive, got %d", cfg.MaxCandles)
	}
	return &Store{
		tf:     cfg.Timeframe,
		max:    cfg.MaxCandles,
		series: make(map[string]*series),
	}, nil
}

func (s *Store) Timeframe() int64 { return s.tf }

func (s *Store) get(pair string) *series {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.series[pair]
}

func (s *Store) getOrCreate(pair string) *series {
	if sr := s.get(pair); sr != nil {
		return sr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sr, ok := s.series[pair]
	if !ok {
		sr = &series{history: make([]models.Candle, 0, s.historyCap())}
		s.series[pair] = sr
	}
	return sr
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func validPrice(v float64) bool { return finite(v) && v > 0 }

func validVolume(v float64) bool { return finite(v) && v >= 0 }

func validSample(smp models.Sample) error {
	switch {
	case smp.Pair == "":
		return errors.Wrap(ErrInvalidSample, "empty pair")
	case !validPrice(smp.Price):
		return errors.Wrapf(ErrInvalidSample, "%s: price %v", smp.Pair, smp.Price)
	case !validVolume(smp.Volume):
		return errors.Wrapf(ErrInvalidSample, "%s: volume %v", smp.Pair, smp.Volume)
	case smp.TS.IsZero():
		return errors.Wrapf(ErrInvalidSample, "%s: zero timestamp", smp.Pair)
	}
	return nil
}

// validCandle те же правила, что для сэмпла, плюс open/close внутри [low, high].
func validCandle(c models.Candle) bool {
	if !validPrice(c.Open) || !validPrice(c.High) || !validPrice(c.Low) || !validPrice(c.Close) {
		return false
	}
	if !validVolume(c.Volume) || c.High < c.Low {
		return false
	}
	return c.Open >= c.Low && c.Open <= c.High && c.Close >= c.Low && c.Close <= c.High
}

// AddSample кладёт сэмпл в бакет floor(ts/tf)*tf. Новый бакет закрывает
// текущую свечу, пропущенные бакеты заполняются плоскими свечами.
func (s *Store) AddSample(smp models.Sample) error {
	smp.Pair = helper.NormPair(smp.Pair)
	if err := validSample(smp); err != nil {
		return err
	}
	bucket := helper.Bucket(smp.TS.Unix(), s.tf)

	sr := s.getOrCreate(smp.Pair)
	sr.mu.Lock()
	defer sr.mu.Unlock()

	cur := sr.current
	switch {
	case cur == nil:
		// первая свеча пары
	case bucket < cur.Bucket:
		return errors.Wrapf(ErrOutOfOrder, "%s: bucket %d < current %d", smp.Pair, bucket, cur.Bucket)
	case bucket == cur.Bucket:
		cur.High = math.Max(cur.High, smp.Price)
		cur.Low = math.Min(cur.Low, smp.Price)
		cur.Close = smp.Price
		cur.Volume += smp.Volume
		return nil
	default:
		s.push(sr, *cur)
		s.fillGap(sr, cur.Close, cur.Bucket+s.tf, bucket)
	}

	sr.current = &models.Candle{
		Bucket: bucket,
		Open:   smp.Price,
		High:   smp.Price,
		Low:    smp.Price,
		Close:  smp.Price,
		Volume: smp.Volume,
	}
	return nil
}

func (s *Store) historyCap() int { return s.max - 1 }

// fillGap плоские свечи на бакетах [from, to). Больше ёмкости не нужно.
func (s *Store) fillGap(sr *series, price float64, from, to int64) {
	if to <= from {
		return
	}
	if limit := int64(s.historyCap()); (to-from)/s.tf > limit {
		from = to - limit*s.tf
	}
	for b := from; b < to; b += s.tf {
		s.push(sr, models.Candle{Bucket: b, Open: price, High: price, Low: price, Close: price})
	}
}

func (s *Store) push(sr *series, c models.Candle) {
	limit := s.historyCap()
	if limit == 0 {
		return
	}
	if len(sr.history) >= limit {
		copy(sr.history, sr.history[1:])
		sr.history = sr.history[:len(sr.history)-1]
	}
	sr.history = append(sr.history, c)
}

// Series история + текущая свеча, новым срезом.
func (s *Store) Series(pair string) []models.Candle {
	sr := s.get(helper.NormPair(pair))
	if sr == nil {
		return nil
	}
	sr.mu.Lock()
	defer sr.mu.Unlock()

	n := len(sr.history)
	if sr.current != nil {
		n++
	}
	out := make([]models.Candle, 0, n)
	out = append(out, sr.history...)
	if sr.current != nil {
		out = append(out, *sr.current)
	}
	return out
}

// History только закрытые свечи.
func (s *Store) History(pair string) []models.Candle {
	sr := s.get(helper.NormPair(pair))
	if sr == nil {
		return nil
	}
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return append([]models.Candle(nil), sr.history...)
}

func (s *Store) Len(pair string) int {
	sr := s.get(helper.NormPair(pair))
	if sr == nil {
		return 0
	}
	sr.mu.Lock()
	defer sr.mu.Unlock()
	n := len(sr.history)
	if sr.current != nil {
		n++
	}
	return n
}

func (s *Store) Pairs() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.series))
	for p := range s.series {
		out = append(out, p)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Replace заменяет серию пары историей с биржи. Бакеты выравниваются,
// последняя свеча становится текущей, чтобы следующие сэмплы её дополняли.
func (s *Store) Replace(pair string, candles []models.Candle) error {
	pair = helper.NormPair(pair)
	if pair == "" {
		return errors.Wrap(ErrInvalidSample, "empty pair")
	}

	aligned := make([]models.Candle, 0, len(candles))
	for i, c := range candles {
		c.Bucket = helper.Bucket(c.Bucket, s.tf)
		if !validCandle(c) {
			return errors.Wrapf(ErrInvalidSample, "%s: candle #%d %+v", pair, i, c)
		}
		if n := len(aligned); n > 0 && c.Bucket <= aligned[n-1].Bucket {
			return errors.Wrapf(ErrOutOfOrder, "%s: candle #%d bucket %d", pair, i, c.Bucket)
		}
		aligned = append(aligned, c)
	}

	sr := s.getOrCreate(pair)
	sr.mu.Lock()
	defer sr.mu.Unlock()

	sr.history = sr.history[:0]
	sr.current = nil
	if len(aligned) == 0 {
		return nil
	}
	last := aligned[len(aligned)-1]
	for i, c := range aligned[:len(aligned)-1] {
		if i > 0 {
			s.fillGap(sr, aligned[i-1].Close, aligned[i-1].Bucket+s.tf, c.Bucket)
		}
		s.push(sr, c)
	}
	if n := len(aligned); n > 1 {
		s.fillGap(sr, aligned[n-2].Close, aligned[n-2].Bucket+s.tf, last.Bucket)
	}
	sr.current = &last
	return nil
}
