package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

type EmissionLister interface {
	SignalsSince(ctx context.Context, since time.Time) ([]models.Emission, error)
}

// JournalStore поднимает гейт из журнала доставки, когда redis не настроен.
// Save ничего не делает: журнал пишет доставка.
type JournalStore struct {
	lister   EmissionLister
	lookback time.Duration
	now      func() time.Time
}

func NewJournalStore(lister EmissionLister, lookback time.Duration) *JournalStore {
	return &JournalStore{lister: lister, lookback: lookback, now: time.Now}
}

func (s *JournalStore) Save(context.Context, Snapshot) error { return nil }

func (s *JournalStore) Load(ctx context.Context) (Snapshot, error) {
	ems, err := s.lister.SignalsSince(ctx, s.now().Add(-s.lookback))
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "load journal emissions")
	}
	return SnapshotFromEmissions(ems), nil
}

// SnapshotFromEmissions последний выпуск на (пара, сторона) и все выпуски по паре.
func SnapshotFromEmissions(ems []models.Emission) Snapshot {
	snap := Snapshot{Emitted: make(map[string][]int64)}
	last := make(map[key]int64)
	for _, em := range ems {
		at := em.At.Unix()
		snap.Emitted[em.Pair] = append(snap.Emitted[em.Pair], at)
		k := key{em.Pair, em.Side}
		if cur, ok := last[k]; !ok || at > cur {
			last[k] = at
		}
	}
	for k, at := range last {
		snap.Last = append(snap.Last, LastEmission{Pair: k.pair, Side: k.side, At: at})
	}
	return snap
}
