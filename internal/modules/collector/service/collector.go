package service

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	candles "signal_bot/internal/modules/candles/service"
	health "signal_bot/internal/modules/health/service"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/metrics"
)

type Fetcher interface {
	Ticker24h(ctx context.Context, pair string) (models.Quote, error)
}

type PairSource interface {
	Pairs(ctx context.Context) ([]string, error)
}

type QuoteCache interface {
	Get(pair string) (models.Quote, bool)
	Set(pair string, price, volume float64)
	Sweep() int
}

type SampleSink interface {
	AddSample(models.Sample) error
}

// Collector раз в интервал снимает цены всех пар и кладёт их в свечи.
type Collector struct {
	fetcher  Fetcher
	cache    QuoteCache
	sink     SampleSink
	source   PairSource
	defaults []string

	m     *metrics.Metrics
	state *health.State
	now   func() time.Time
}

type Deps struct {
	Fetcher  Fetcher
	Cache    QuoteCache
	Sink     SampleSink
	Source   PairSource
	Defaults []string
	Metrics  *metrics.Metrics
	State    *health.State
	Now      func() time.Time
}

func New(d Deps) *Collector {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop()
	}
	if d.State == nil {
		d.State = health.NewState()
	}
	return &Collector{
		fetcher:  d.Fetcher,
		cache:    d.Cache,
		sink:     d.Sink,
		source:   d.Source,
		defaults: d.Defaults,
		m:        d.Metrics,
		state:    d.State,
		now:      d.Now,
	}
}

// Pairs объединение подписок и дефолтных пар, отсортировано.
func (c *Collector) Pairs(ctx context.Context) []string {
	set := make(map[string]struct{}, len(c.defaults))
	for _, p := range c.defaults {
		set[helper.NormPair(p)] = struct{}{}
	}
	if c.source != nil {
		subscribed, err := c.source.Pairs(ctx)
		if err != nil {
			// без подписок собираем хотя бы дефолтные
			logger.Warn("collector: load tracked pairs: %v", err)
		}
		for _, p := range subscribed {
			set[helper.NormPair(p)] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for p := range set {
		if p != "" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (c *Collector) quote(ctx context.Context, pair string) (models.Quote, error) {
	if q, ok := c.cache.Get(pair); ok {
		c.m.CacheLookups.WithLabelValues("hit").Inc()
		return q, nil
	}
	c.m.CacheLookups.WithLabelValues("miss").Inc()

	q, err := c.fetcher.Ticker24h(ctx, pair)
	if err != nil {
		c.m.FetchErrors.Inc()
		return models.Quote{}, err
	}
	c.cache.Set(pair, q.Price, q.Volume)
	return q, nil
}

// Tick один проход сбора. Ошибка по паре не мешает остальным.
// Возвращает число принятых сэмплов.
func (c *Collector) Tick(ctx context.Context) int {
	pairs := c.Pairs(ctx)
	c.m.TrackedPairs.Set(float64(len(pairs)))

	ts := c.now()
	accepted := 0
	for _, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		q, err := c.quote(ctx, pair)
		if err != nil {
			logger.Error("collector: fetch %s: %v", pair, err)
			continue
		}

		err = c.sink.AddSample(models.Sample{Pair: pair, Price: q.Price, Volume: q.Volume, TS: ts})
		if err != nil {
			reason := "other"
			switch {
			case errors.Is(err, candles.ErrInvalidSample):
				reason = "invalid"
			case errors.Is(err, candles.ErrOutOfOrder):
				reason = "out_of_order"
			}
			c.m.SampleErrors.WithLabelValues(pair, reason).Inc()
			logger.Warn("collector: add sample %s: %v", pair, err)
			continue
		}
		c.m.SamplesTotal.WithLabelValues(pair).Inc()
		accepted++
	}

	if n := c.cache.Sweep(); n > 0 {
		logger.Debug("collector: swept %d stale quotes", n)
	}
	if accepted > 0 {
		c.state.TouchSample(ts)
	}
	return accepted
}

// Run тикает сразу и затем каждые interval до отмены ctx.
func (c *Collector) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	// ctx только сигнал остановки: начатая итерация доходит до конца
	work, cancel := helper.Detach(ctx, helper.DrainTimeout)
	defer cancel()

	for {
		c.Tick(work)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if ctx.Err() != nil {
				return
			}
		}
	}
}
