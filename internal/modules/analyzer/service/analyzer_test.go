package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"signal_bot/internal/models"
	cooldown "signal_bot/internal/modules/cooldown/service"
	"signal_bot/pkg/metrics"
)

type fakeScorer struct {
	mu    sync.Mutex
	calls map[string]int
	sides map[string]models.Side
}

func (s *fakeScorer) Analyze(pair string, candles []models.Candle) (models.Signal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[pair]++
	side, ok := s.sides[pair]
	if !ok || len(candles) == 0 {
		return models.Signal{}, false
	}
	return models.Signal{Pair: pair, Side: side, Score: 90, Entry: candles[len(candles)-1].Close}, true
}

type fakeStore struct{}

func (fakeStore) Series(string) []models.Candle {
	return []models.Candle{{Bucket: 60, Open: 1, High: 1, Low: 1, Close: 1}}
}

type fakeSaver struct {
	saves int
	err   error
}

func (s *fakeSaver) Save(context.Context, cooldown.Snapshot) error {
	s.saves++
	return s.err
}

type fakeSource struct {
	rec map[string][]int64
	err error
}

func (s fakeSource) Recipients(context.Context) (map[string][]int64, error) { return s.rec, s.err }

type delivered struct {
	sig   models.Signal
	chats []int64
}

type fakeDelivery struct {
	out []delivered
	err error
}

func (d *fakeDelivery) Deliver(_ context.Context, sig models.Signal, chats []int64) (int, error) {
	d.out = append(d.out, delivered{sig: sig, chats: chats})
	return len(chats), d.err
}

type fixture struct {
	a        *Analyzer
	scorer   *fakeScorer
	saver    *fakeSaver
	delivery *fakeDelivery
	m        *metrics.Metrics
	now      time.Time
}

func newFixture(gateCfg cooldown.Config, src fakeSource, sides map[string]models.Side) *fixture {
	f := &fixture{
		scorer:   &fakeScorer{calls: map[string]int{}, sides: sides},
		saver:    &fakeSaver{},
		delivery: &fakeDelivery{},
		m:        metrics.Nop(),
		now:      time.Unix(1_700_000_000, 0),
	}
	f.a = New(Deps{
		Scorer:   f.scorer,
		Store:    fakeStore{},
		Gate:     cooldown.NewGate(gateCfg),
		Saver:    f.saver,
		Source:   src,
		Delivery: f.delivery,
		Metrics:  f.m,
		Now:      func() time.Time { return f.now },
	})
	return f
}

var defaultGate = cooldown.Config{Cooldown: 6 * time.Hour, MaxPerWindow: 3, Window: 24 * time.Hour}

func TestPassEmitsAndDelivers(t *testing.T) {
	f := newFixture(defaultGate,
		fakeSource{rec: map[string][]int64{"BTCUSDT": {1, 2}, "ETHUSDT": {3}}},
		map[string]models.Side{"BTCUSDT": models.SideLong})

	got := f.a.Pass(context.Background())
	if len(got) != 1 || got[0].Pair != "BTCUSDT" {
		t.Fatalf("emitted = %+v", got)
	}
	if len(f.delivery.out) != 1 || len(f.delivery.out[0].chats) != 2 {
		t.Fatalf("delivered = %+v", f.delivery.out)
	}
	if f.saver.saves != 1 {
		t.Fatalf("saves = %d", f.saver.saves)
	}
	if f.scorer.calls["ETHUSDT"] != 1 {
		t.Fatalf("eth not analyzed")
	}
	if v := testutil.ToFloat64(f.m.SignalsTotal.WithLabelValues("BTCUSDT", "LONG")); v != 1 {
		t.Fatalf("signals metric = %v", v)
	}
}

func TestCooldownSuppressesRepeat(t *testing.T) {
	f := newFixture(defaultGate,
		fakeSource{rec: map[string][]int64{"BTCUSDT": {1}}},
		map[string]models.Side{"BTCUSDT": models.SideLong})

	f.a.Pass(context.Background())
	f.now = f.now.Add(100 * time.Second)
	if got := f.a.Pass(context.Background()); len(got) != 0 {
		t.Fatalf("second pass emitted %+v", got)
	}
	if len(f.delivery.out) != 1 {
		t.Fatalf("deliveries = %d", len(f.delivery.out))
	}
	if v := testutil.ToFloat64(f.m.GateDenied.WithLabelValues("BTCUSDT")); v != 1 {
		t.Fatalf("gate denied = %v", v)
	}
}

func TestCappedPairSkipsAnalysis(t *testing.T) {
	f := newFixture(cooldown.Config{Cooldown: 0, MaxPerWindow: 1, Window: 24 * time.Hour},
		fakeSource{rec: map[string][]int64{"BTCUSDT": {1}}},
		map[string]models.Side{"BTCUSDT": models.SideShort})

	f.a.Pass(context.Background())
	f.now = f.now.Add(time.Hour)
	f.a.Pass(context.Background())

	if f.scorer.calls["BTCUSDT"] != 1 {
		t.Fatalf("scorer calls = %d, want 1", f.scorer.calls["BTCUSDT"])
	}
	if v := testutil.ToFloat64(f.m.Analyses.WithLabelValues("BTCUSDT", "capped")); v != 1 {
		t.Fatalf("capped = %v", v)
	}
}

func TestPassSurvivesCollaboratorErrors(t *testing.T) {
	f := newFixture(defaultGate,
		fakeSource{rec: map[string][]int64{"BTCUSDT": {1}, "TONUSDT": {1}}},
		map[string]models.Side{"BTCUSDT": models.SideLong, "TONUSDT": models.SideShort})
	f.saver.err = errors.New("redis down")
	f.delivery.err = errors.New("ctx cancelled mid-broadcast")

	if got := f.a.Pass(context.Background()); len(got) != 2 {
		t.Fatalf("emitted = %d", len(got))
	}
}

func TestPassWithoutRecipients(t *testing.T) {
	f := newFixture(defaultGate, fakeSource{err: errors.New("db down")}, nil)
	if got := f.a.Pass(context.Background()); got != nil {
		t.Fatalf("emitted = %+v", got)
	}
	if len(f.scorer.calls) != 0 {
		t.Fatalf("scorer called: %v", f.scorer.calls)
	}
	if !f.a.state.LastPass().IsZero() {
		t.Fatalf("failed pass marked as done")
	}
}

type blockingDelivery struct {
	mu      sync.Mutex
	out     []delivered
	ctxErrs []error
	entered chan struct{}
	release chan struct{}
}

func (d *blockingDelivery) Deliver(ctx context.Context, sig models.Signal, chats []int64) (int, error) {
	d.mu.Lock()
	first := len(d.out) == 0
	d.out = append(d.out, delivered{sig: sig, chats: chats})
	d.mu.Unlock()

	if first {
		close(d.entered)
		<-d.release
	}
	d.mu.Lock()
	d.ctxErrs = append(d.ctxErrs, ctx.Err())
	d.mu.Unlock()
	return len(chats), ctx.Err()
}

func TestRunFinishesPassAfterStop(t *testing.T) {
	d := &blockingDelivery{entered: make(chan struct{}), release: make(chan struct{})}
	scorer := &fakeScorer{calls: map[string]int{}, sides: map[string]models.Side{
		"BTCUSDT": models.SideLong,
		"ETHUSDT": models.SideShort,
	}}
	gate := cooldown.NewGate(defaultGate)
	a := New(Deps{
		Scorer:   scorer,
		Store:    fakeStore{},
		Gate:     gate,
		Saver:    &fakeSaver{},
		Source:   fakeSource{rec: map[string][]int64{"BTCUSDT": {1, 2, 3}, "ETHUSDT": {4}}},
		Delivery: d,
		Metrics:  metrics.Nop(),
	})

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx, time.Hour)
		close(done)
	}()

	<-d.entered
	stop()
	close(d.release)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after stop")
	}

	if len(d.out) != 2 {
		t.Fatalf("deliveries = %d, want 2 (pass must complete)", len(d.out))
	}
	for i, err := range d.ctxErrs {
		if err != nil {
			t.Fatalf("delivery %d saw cancelled ctx: %v", i, err)
		}
	}
	if scorer.calls["ETHUSDT"] != 1 {
		t.Fatalf("ETHUSDT analyzed %d times", scorer.calls["ETHUSDT"])
	}
}
