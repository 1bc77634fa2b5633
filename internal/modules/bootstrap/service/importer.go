package service

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

type KlineFetcher interface {
	Klines(ctx context.Context, pair, tf string, limit int) ([]models.Candle, error)
}

type SeriesReplacer interface {
	Replace(pair string, candles []models.Candle) error
}

type Config struct {
	Timeframe string
	Count     int
	// Parallel сколько пар грузим одновременно, чтобы не словить rate limit
	Parallel int
}

// Importer прогревает CandleStore историей klines.
type Importer struct {
	klines KlineFetcher
	store  SeriesReplacer
	cfg    Config
	sem    chan struct{}
}

func NewImporter(klines KlineFetcher, store SeriesReplacer, cfg Config) *Importer {
	if cfg.Parallel <= 0 {
		cfg.Parallel = 1
	}
	return &Importer{
		klines: klines,
		store:  store,
		cfg:    cfg,
		sem:    make(chan struct{}, cfg.Parallel),
	}
}

// Result сколько свечей легло по каждой паре.
type Result map[string]int

// Import грузит все пары; ошибка по одной паре не мешает остальным,
// возвращается первая.
func (im *Importer) Import(ctx context.Context, pairs []string) (Result, error) {
	res := make(Result, len(pairs))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, pair := range pairs {
		pair := helper.NormPair(pair)
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case im.sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-im.sem }()

			n, err := im.importPair(ctx, pair)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			res[pair] = n
		}()
	}
	wg.Wait()

	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}
	return res, firstErr
}

func (im *Importer) importPair(ctx context.Context, pair string) (n int, err error) {
	span, ctx := tracing.Start(ctx, "bootstrap.import", pair)
	defer func() {
		tracing.Fail(span, err)
		span.Finish()
	}()

	candles, err := im.klines.Klines(ctx, pair, im.cfg.Timeframe, im.cfg.Count)
	if err != nil {
		return 0, errors.Wrapf(err, "import %s", pair)
	}
	if err := im.store.Replace(pair, candles); err != nil {
		return 0, errors.Wrapf(err, "import %s", pair)
	}

	logger.Info("[BOOT] %s: imported %d %s candles", pair, len(candles), im.cfg.Timeframe)
	return len(candles), nil
}
