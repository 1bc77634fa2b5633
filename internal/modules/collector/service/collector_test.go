package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"signal_bot/internal/models"
	candles "signal_bot/internal/modules/candles/service"
	pricecache "signal_bot/internal/modules/pricecache/service"
	"signal_bot/pkg/metrics"
)

type fakeFetcher struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  map[string]int
	fail   map[string]bool
}

func newFakeFetcher(prices map[string]float64) *fakeFetcher {
	return &fakeFetcher{prices: prices, calls: map[string]int{}, fail: map[string]bool{}}
}

func (f *fakeFetcher) Ticker24h(_ context.Context, pair string) (models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[pair]++
	if f.fail[pair] {
		return models.Quote{}, errors.New("boom")
	}
	p, ok := f.prices[pair]
	if !ok {
		return models.Quote{}, errors.Errorf("unknown %s", pair)
	}
	return models.Quote{Price: p, Volume: 10}, nil
}

type fakeSource struct {
	pairs []string
	err   error
}

func (s fakeSource) Pairs(context.Context) ([]string, error) { return s.pairs, s.err }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newCollector(t *testing.T, f Fetcher, src PairSource, clk *clock) (*Collector, *candles.Store, *metrics.Metrics) {
	t.Helper()
	store, err := candles.NewStore(candles.Config{Timeframe: 60, MaxCandles: 300})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	m := metrics.Nop()
	c := New(Deps{
		Fetcher:  f,
		Cache:    pricecache.NewCache(30*time.Second, pricecache.WithClock(clk.now)),
		Sink:     store,
		Source:   src,
		Defaults: []string{"BTCUSDT", "ETHUSDT"},
		Metrics:  m,
		Now:      clk.now,
	})
	return c, store, m
}

func TestPairsUnionOfDefaultsAndSubscriptions(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	c, _, _ := newCollector(t, newFakeFetcher(nil), fakeSource{pairs: []string{"tonusdt", "BTCUSDT"}}, clk)

	got := c.Pairs(context.Background())
	want := []string{"BTCUSDT", "ETHUSDT", "TONUSDT"}
	if len(got) != len(want) {
		t.Fatalf("pairs = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pairs = %v, want %v", got, want)
		}
	}
}

func TestPairsFallsBackToDefaultsOnSourceError(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	c, _, _ := newCollector(t, newFakeFetcher(nil), fakeSource{err: errors.New("db down")}, clk)
	if got := c.Pairs(context.Background()); len(got) != 2 {
		t.Fatalf("pairs = %v", got)
	}
}

func TestTickFeedsStoreAndSkipsFailures(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	f := newFakeFetcher(map[string]float64{"BTCUSDT": 100, "ETHUSDT": 10})
	f.fail["ETHUSDT"] = true
	c, store, m := newCollector(t, f, nil, clk)

	if n := c.Tick(context.Background()); n != 1 {
		t.Fatalf("accepted = %d", n)
	}
	if store.Len("BTCUSDT") != 1 || store.Len("ETHUSDT") != 0 {
		t.Fatalf("store lens: btc=%d eth=%d", store.Len("BTCUSDT"), store.Len("ETHUSDT"))
	}
	if got := testutil.ToFloat64(m.FetchErrors); got != 1 {
		t.Fatalf("fetch errors = %v", got)
	}
	if got := testutil.ToFloat64(m.TrackedPairs); got != 2 {
		t.Fatalf("tracked = %v", got)
	}
}

func TestTickUsesCacheWithinTTL(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	f := newFakeFetcher(map[string]float64{"BTCUSDT": 100, "ETHUSDT": 10})
	c, store, m := newCollector(t, f, nil, clk)

	c.Tick(context.Background())
	clk.t = clk.t.Add(10 * time.Second)
	c.Tick(context.Background())
	if f.calls["BTCUSDT"] != 1 {
		t.Fatalf("fetches within ttl = %d", f.calls["BTCUSDT"])
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")); got != 2 {
		t.Fatalf("cache hits = %v", got)
	}

	clk.t = clk.t.Add(60 * time.Second)
	c.Tick(context.Background())
	if f.calls["BTCUSDT"] != 2 {
		t.Fatalf("fetches after ttl = %d", f.calls["BTCUSDT"])
	}
	if store.Len("BTCUSDT") != 2 {
		t.Fatalf("candles = %d", store.Len("BTCUSDT"))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	f := newFakeFetcher(map[string]float64{"BTCUSDT": 100, "ETHUSDT": 10})
	c, store, _ := newCollector(t, f, nil, clk)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Hour)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for store.Len("BTCUSDT") == 0 {
		select {
		case <-deadline:
			t.Fatalf("first tick did not run")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return")
	}
}
