package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"signal_bot/internal/models"
)

var t0 = time.Unix(1_700_000_000, 0)

func defaultGate() *Gate {
	return NewGate(Config{Cooldown: 21600 * time.Second, MaxPerWindow: 3, Window: 24 * time.Hour})
}

func TestCooldownBlocksSecondEmission(t *testing.T) {
	g := defaultGate()

	approved := 0
	for _, at := range []time.Time{t0, t0.Add(100 * time.Second)} {
		if g.TryAcquire("BTCUSDT", models.SideLong, at) {
			approved++
		}
	}
	if approved != 1 {
		t.Fatalf("approved = %d, want 1", approved)
	}
}

func TestCooldownIsPerSide(t *testing.T) {
	g := defaultGate()
	if !g.TryAcquire("BTCUSDT", models.SideLong, t0) {
		t.Fatalf("first long denied")
	}
	if !g.TryAcquire("BTCUSDT", models.SideShort, t0.Add(time.Second)) {
		t.Fatalf("short blocked by long cooldown")
	}
	if !g.TryAcquire("ETHUSDT", models.SideLong, t0.Add(time.Second)) {
		t.Fatalf("other pair blocked")
	}
}

func TestCooldownExpires(t *testing.T) {
	g := defaultGate()
	g.Commit("BTCUSDT", models.SideLong, t0)
	if g.Allow("BTCUSDT", models.SideLong, t0.Add(21599*time.Second)) {
		t.Fatalf("allowed before cooldown elapsed")
	}
	if !g.Allow("BTCUSDT", models.SideLong, t0.Add(21600*time.Second)) {
		t.Fatalf("denied once cooldown elapsed")
	}
}

func TestDailyCap(t *testing.T) {
	g := NewGate(Config{Cooldown: time.Minute, MaxPerWindow: 3, Window: 24 * time.Hour})

	at := t0
	for i := 0; i < 3; i++ {
		if !g.TryAcquire("BTCUSDT", models.SideLong, at) {
			t.Fatalf("emission %d denied", i)
		}
		at = at.Add(time.Hour)
	}
	for _, side := range []models.Side{models.SideLong, models.SideShort} {
		if g.TryAcquire("BTCUSDT", side, at) {
			t.Fatalf("%s allowed past the cap", side)
		}
	}
	if g.Remaining("BTCUSDT", at) != 0 {
		t.Fatalf("remaining = %d", g.Remaining("BTCUSDT", at))
	}
	if !g.TryAcquire("ETHUSDT", models.SideLong, at) {
		t.Fatalf("cap leaked to another pair")
	}
}

func TestWindowRolls(t *testing.T) {
	g := NewGate(Config{Cooldown: 0, MaxPerWindow: 2, Window: 24 * time.Hour})
	g.Commit("BTCUSDT", models.SideLong, t0)
	g.Commit("BTCUSDT", models.SideLong, t0.Add(12*time.Hour))

	if g.Allow("BTCUSDT", models.SideLong, t0.Add(23*time.Hour)) {
		t.Fatalf("allowed with two emissions inside window")
	}
	if !g.Allow("BTCUSDT", models.SideLong, t0.Add(24*time.Hour)) {
		t.Fatalf("oldest emission should have rolled out")
	}
	if r := g.Remaining("BTCUSDT", t0.Add(24*time.Hour)); r != 1 {
		t.Fatalf("remaining = %d, want 1", r)
	}
}

func TestDenialDoesNotMutate(t *testing.T) {
	g := defaultGate()
	g.Commit("BTCUSDT", models.SideLong, t0)
	before := g.Snapshot()

	if g.TryAcquire("BTCUSDT", models.SideLong, t0.Add(time.Minute)) {
		t.Fatalf("expected denial")
	}
	after := g.Snapshot()
	if len(after.Emitted["BTCUSDT"]) != len(before.Emitted["BTCUSDT"]) || after.Last[0].At != before.Last[0].At {
		t.Fatalf("denial mutated state: %+v -> %+v", before, after)
	}
}

func TestTryAcquireIsAtomic(t *testing.T) {
	g := defaultGate()
	var approved atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire("BTCUSDT", models.SideShort, t0) {
				approved.Add(1)
			}
		}()
	}
	wg.Wait()
	if approved.Load() != 1 {
		t.Fatalf("approved = %d, want 1", approved.Load())
	}
}

func TestSnapshotRestore(t *testing.T) {
	g := defaultGate()
	g.Commit("BTCUSDT", models.SideLong, t0)
	g.Commit("ETHUSDT", models.SideShort, t0.Add(time.Minute))

	restored := defaultGate()
	restored.Restore(g.Snapshot())
	restored.Restore(g.Snapshot())

	if restored.Allow("BTCUSDT", models.SideLong, t0.Add(time.Hour)) {
		t.Fatalf("restored gate lost cooldown")
	}
	if r := restored.Remaining("ETHUSDT", t0.Add(time.Hour)); r != 2 {
		t.Fatalf("remaining = %d, want 2 (restore must not duplicate)", r)
	}
}
