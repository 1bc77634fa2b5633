package service

import (
	"context"
	"sort"
	"time"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	cooldown "signal_bot/internal/modules/cooldown/service"
	health "signal_bot/internal/modules/health/service"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/metrics"
	"signal_bot/pkg/tracing"
)

type Scorer interface {
	Analyze(pair string, candles []models.Candle) (models.Signal, bool)
}

type SeriesReader interface {
	Series(pair string) []models.Candle
}

type Gate interface {
	Remaining(pair string, now time.Time) int
	TryAcquire(pair string, side models.Side, now time.Time) bool
	Snapshot() cooldown.Snapshot
}

type SnapshotSaver interface {
	Save(ctx context.Context, snap cooldown.Snapshot) error
}

type RecipientSource interface {
	Recipients(ctx context.Context) (map[string][]int64, error)
}

type Delivery interface {
	Deliver(ctx context.Context, sig models.Signal, recipients []int64) (int, error)
}

type Deps struct {
	Scorer   Scorer
	Store    SeriesReader
	Gate     Gate
	Saver    SnapshotSaver
	Source   RecipientSource
	Delivery Delivery
	Metrics  *metrics.Metrics
	State    *health.State
	Now      func() time.Time
}

// Analyzer проход по всем парам с подписчиками: скоринг, гейт, доставка.
type Analyzer struct {
	scorer   Scorer
	store    SeriesReader
	gate     Gate
	saver    SnapshotSaver
	source   RecipientSource
	delivery Delivery
	m        *metrics.Metrics
	state    *health.State
	now      func() time.Time
}

func New(d Deps) *Analyzer {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop()
	}
	if d.State == nil {
		d.State = health.NewState()
	}
	return &Analyzer{
		scorer:   d.Scorer,
		store:    d.Store,
		gate:     d.Gate,
		saver:    d.Saver,
		source:   d.Source,
		delivery: d.Delivery,
		m:        d.Metrics,
		state:    d.State,
		now:      d.Now,
	}
}

// Pass один проход, возвращает выпущенные сигналы.
func (a *Analyzer) Pass(ctx context.Context) []models.Signal {
	start := time.Now()
	span, ctx := tracing.Start(ctx, "analyzer.pass", "")
	defer span.Finish()
	defer func() { a.m.AnalyzeDur.Observe(time.Since(start).Seconds()) }()

	recipients, err := a.source.Recipients(ctx)
	if err != nil {
		tracing.Fail(span, err)
		logger.Error("analyzer: load recipients: %v", err)
		return nil
	}

	pairs := make([]string, 0, len(recipients))
	for p := range recipients {
		pairs = append(pairs, p)
	}
	sort.Strings(pairs)

	var emitted []models.Signal
	for _, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		if sig, ok := a.analyzePair(ctx, pair, recipients[pair]); ok {
			emitted = append(emitted, sig)
		}
	}

	a.state.TouchPass(a.now())
	span.SetTag("signals", len(emitted))
	return emitted
}

func (a *Analyzer) analyzePair(ctx context.Context, pair string, chats []int64) (models.Signal, bool) {
	span, ctx := tracing.Start(ctx, "analyzer.pair", pair)
	defer span.Finish()

	now := a.now()
	// дневной лимит исчерпан: даже не считаем индикаторы
	if a.gate.Remaining(pair, now) == 0 {
		a.m.Analyses.WithLabelValues(pair, "capped").Inc()
		return models.Signal{}, false
	}

	sig, ok := a.scorer.Analyze(pair, a.store.Series(pair))
	if !ok {
		a.m.Analyses.WithLabelValues(pair, "none").Inc()
		return models.Signal{}, false
	}
	span.SetTag("side", sig.Side.String())
	span.SetTag("score", sig.Score)

	if !a.gate.TryAcquire(pair, sig.Side, now) {
		a.m.Analyses.WithLabelValues(pair, "gated").Inc()
		a.m.GateDenied.WithLabelValues(pair).Inc()
		logger.Debug("analyzer: %s %s score %d suppressed by cooldown", pair, sig.Side, sig.Score)
		return models.Signal{}, false
	}

	a.m.Analyses.WithLabelValues(pair, "signal").Inc()
	a.m.SignalsTotal.WithLabelValues(pair, sig.Side.String()).Inc()
	a.m.SignalScore.Observe(float64(sig.Score))
	a.state.AddSignal()

	if err := a.saver.Save(ctx, a.gate.Snapshot()); err != nil {
		logger.Warn("analyzer: persist cooldown: %v", err)
	}

	sent, err := a.delivery.Deliver(ctx, sig, chats)
	if err != nil {
		tracing.Fail(span, err)
		logger.Error("analyzer: deliver %s: %v", pair, err)
	}
	logger.Info("signal sent: %s %s score=%d to %d/%d chats", pair, sig.Side, sig.Score, sent, len(chats))
	return sig, true
}

// Run проход сразу и затем каждые interval до отмены ctx.
func (a *Analyzer) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	// ctx только сигнал остановки: начатая итерация доходит до конца
	work, cancel := helper.Detach(ctx, helper.DrainTimeout)
	defer cancel()

	for {
		a.Pass(work)
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
