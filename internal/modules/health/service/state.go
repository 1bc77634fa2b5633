package service

import (
	"sync/atomic"
	"time"
)

// State флаги живости пайплайна для /readyz и /healthz.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	wsConnected    atomic.Bool
	lastSampleUnix atomic.Int64
	lastPassUnix   atomic.Int64
	signals        atomic.Int64
}

func NewState() *State {
	return &State{startedAt: time.Now()}
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetWSConnected(v bool) { s.wsConnected.Store(v) }
func (s *State) WSConnected() bool     { return s.wsConnected.Load() }

func (s *State) TouchSample(t time.Time) { s.lastSampleUnix.Store(t.Unix()) }
func (s *State) LastSample() time.Time   { return fromUnix(s.lastSampleUnix.Load()) }

func (s *State) TouchPass(t time.Time) { s.lastPassUnix.Store(t.Unix()) }
func (s *State) LastPass() time.Time   { return fromUnix(s.lastPassUnix.Load()) }

func (s *State) AddSignal()     { s.signals.Add(1) }
func (s *State) Signals() int64 { return s.signals.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

func fromUnix(u int64) time.Time {
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}
