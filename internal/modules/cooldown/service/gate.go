package service

import (
	"sort"
	"sync"
	"time"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
)

type Config struct {
	// Cooldown минимум между сигналами одной пары и стороны.
	Cooldown time.Duration
	// MaxPerWindow лимит сигналов пары за скользящее окно Window.
	MaxPerWindow int
	Window       time.Duration
}

type key struct {
	pair string
	side models.Side
}

// Gate кулдаун по (пара, сторона) и лимит по паре в скользящем окне.
// Отказ состояние не меняет.
type Gate struct {
	cfg Config

	mu      sync.Mutex
	last    map[key]time.Time
	emitted map[string][]time.Time
}

func NewGate(cfg Config) *Gate {
	return &Gate{
		cfg:     cfg,
		last:    make(map[key]time.Time),
		emitted: make(map[string][]time.Time),
	}
}

func (g *Gate) Allow(pair string, side models.Side, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.allowLocked(helper.NormPair(pair), side, now)
}

func (g *Gate) Commit(pair string, side models.Side, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.commitLocked(helper.NormPair(pair), side, now)
}

// TryAcquire Allow и Commit под одной блокировкой.
func (g *Gate) TryAcquire(pair string, side models.Side, now time.Time) bool {
	pair = helper.NormPair(pair)

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.allowLocked(pair, side, now) {
		return false
	}
	g.commitLocked(pair, side, now)
	return true
}

// Remaining сколько сигналов пара ещё может выпустить в текущем окне.
func (g *Gate) Remaining(pair string, now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	left := g.cfg.MaxPerWindow - g.inWindow(helper.NormPair(pair), now)
	if left < 0 {
		return 0
	}
	return left
}

func (g *Gate) allowLocked(pair string, side models.Side, now time.Time) bool {
	if last, ok := g.last[key{pair, side}]; ok && now.Sub(last) < g.cfg.Cooldown {
		return false
	}
	return g.inWindow(pair, now) < g.cfg.MaxPerWindow
}

func (g *Gate) commitLocked(pair string, side models.Side, now time.Time) {
	g.last[key{pair, side}] = now
	g.emitted[pair] = append(g.prune(pair, now), now)
}

func (g *Gate) inWindow(pair string, now time.Time) int {
	n := 0
	for _, t := range g.emitted[pair] {
		if now.Sub(t) < g.cfg.Window {
			n++
		}
	}
	return n
}

func (g *Gate) prune(pair string, now time.Time) []time.Time {
	kept := g.emitted[pair][:0]
	for _, t := range g.emitted[pair] {
		if now.Sub(t) < g.cfg.Window {
			kept = append(kept, t)
		}
	}
	return kept
}

// Snapshot состояние гейта для сохранения между рестартами.
type Snapshot struct {
	Last    []LastEmission     `json:"last"`
	Emitted map[string][]int64 `json:"emitted"`
}

type LastEmission struct {
	Pair string      `json:"pair"`
	Side models.Side `json:"side"`
	At   int64       `json:"at"`
}

func (g *Gate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := Snapshot{
		Last:    make([]LastEmission, 0, len(g.last)),
		Emitted: make(map[string][]int64, len(g.emitted)),
	}
	for k, t := range g.last {
		snap.Last = append(snap.Last, LastEmission{Pair: k.pair, Side: k.side, At: t.Unix()})
	}
	sort.Slice(snap.Last, func(i, j int) bool {
		if snap.Last[i].Pair != snap.Last[j].Pair {
			return snap.Last[i].Pair < snap.Last[j].Pair
		}
		return snap.Last[i].Side < snap.Last[j].Side
	})
	for pair, ts := range g.emitted {
		out := make([]int64, len(ts))
		for i, t := range ts {
			out[i] = t.Unix()
		}
		snap.Emitted[pair] = out
	}
	return snap
}

// Restore подмешивает сохранённое состояние. Более свежие записи в памяти не затираются.
func (g *Gate) Restore(snap Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, le := range snap.Last {
		k := key{helper.NormPair(le.Pair), le.Side}
		at := time.Unix(le.At, 0)
		if cur, ok := g.last[k]; !ok || at.After(cur) {
			g.last[k] = at
		}
	}
	for pair, ts := range snap.Emitted {
		pair = helper.NormPair(pair)
		seen := make(map[int64]struct{}, len(g.emitted[pair]))
		for _, t := range g.emitted[pair] {
			seen[t.Unix()] = struct{}{}
		}
		for _, u := range ts {
			if _, dup := seen[u]; dup {
				continue
			}
			g.emitted[pair] = append(g.emitted[pair], time.Unix(u, 0))
		}
		sort.Slice(g.emitted[pair], func(i, j int) bool { return g.emitted[pair][i].Before(g.emitted[pair][j]) })
	}
}
