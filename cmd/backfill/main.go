// backfill грузит историю klines с Binance и прогоняет по ней скоринг:
//
//	backfill -tf 1h -count 300 BTCUSDT ETHUSDT
//
// Без пар берутся market.pairs из конфига.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	binance "signal_bot/internal/modules/binance/service"
	candles "signal_bot/internal/modules/candles/service"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/strategy"
	strategysvc "signal_bot/internal/modules/strategy/service"
	"signal_bot/pkg/logger"
)

func main() {
	tf := flag.String("tf", "", "timeframe: 1m 5m 15m 30m 1h 4h 1d (default market.timeframe)")
	count := flag.Int("count", 300, "candles per pair, capped at 1000")
	flag.Parse()

	if err := run(*tf, *count, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "backfill:", err)
		os.Exit(1)
	}
}

func run(tf string, count int, pairs []string) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if _, err := logger.Init("backfill", "warn"); err != nil {
		return err
	}
	if tf == "" {
		tf = cfg.Market.Timeframe
	}
	if len(pairs) == 0 {
		pairs = cfg.Market.Pairs
	}
	tfSec, err := helper.TFSeconds(tf)
	if err != nil {
		return err
	}

	client := binance.NewClient(binance.Config{
		RestURL: cfg.Exchange.RestURL,
		Timeout: 10 * time.Second,
	})
	store, err := candles.NewStore(candles.Config{Timeframe: tfSec, MaxCandles: max(count, cfg.Market.MaxCandles)})
	if err != nil {
		return err
	}
	scorer := strategysvc.NewScorer(strategy.NewParams(cfg))
	need := scorer.Params().DeepCandles

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, pair := range pairs {
		pair = helper.NormPair(pair)
		fmt.Printf("%s %s: requesting %d candles\n", pair, tf, count)

		klines, err := client.Klines(ctx, pair, tf, count)
		if err != nil {
			fmt.Printf("  error: %v\n", err)
			continue
		}
		if err := store.Replace(pair, klines); err != nil {
			fmt.Printf("  error: %v\n", err)
			continue
		}
		report(pair, store.Series(pair), need, scorer)
	}
	return nil
}

func report(pair string, series []models.Candle, need int, scorer *strategysvc.Scorer) {
	fmt.Printf("  stored %d candles\n", len(series))
	if len(series) == 0 {
		return
	}
	if len(series) < need {
		fmt.Printf("  %d more candles needed for analysis\n", need-len(series))
	}

	lo, hi := series[0].Close, series[0].Close
	for _, c := range series {
		lo, hi = min(lo, c.Close), max(hi, c.Close)
	}
	fmt.Printf("  close range %.8g - %.8g, last %.8g\n", lo, hi, series[len(series)-1].Close)

	sig, ok := scorer.Analyze(pair, series)
	if !ok {
		fmt.Println("  no signal")
		return
	}
	fmt.Printf("  %s score=%d entry=%.8g sl=%.8g tp=%.8g/%.8g/%.8g\n",
		sig.Side, sig.Score, sig.Entry, sig.StopLoss, sig.TakeProfit1, sig.TakeProfit2, sig.TakeProfit3)
	for _, r := range sig.Reasons {
		fmt.Printf("    - %s\n", r)
	}
}
