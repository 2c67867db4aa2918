// Package game implements the headless boss-encounter logic of the
// platformer: an explicit state machine advanced by a virtual clock, with
// timed buffs, scripted final phase and poison add-on enemies. No real
// clock and no engine; every delay and every random roll is injected so
// the rules are deterministic under test.
package game

import (
	"sort"
	"time"
)

// Handle is a cancellable reference to a scheduled call.
type Handle struct {
	id        int
	at        time.Duration
	fn        func()
	cancelled bool
}

// Cancel prevents the call from firing. Safe to call more than once and
// after the call already fired.
func (h *Handle) Cancel() {
	h.cancelled = true
}

// Scheduler runs delayed calls on a virtual clock. Time only moves when
// Advance is called, so entities can schedule animation completions and
// despawn transitions without touching the wall clock. Destroying an entity
// cancels its outstanding handles instead of relying on liveness flags
// inside each callback.
type Scheduler struct {
	now     time.Duration
	pending []*Handle
	nextID  int
}

// NewScheduler creates a scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once d elapses and returns its handle.
func (s *Scheduler) After(d time.Duration, fn func()) *Handle {
	s.nextID++
	h := &Handle{id: s.nextID, at: s.now + d, fn: fn}
	s.pending = append(s.pending, h)
	return h
}

// Advance moves the clock forward by dt and fires every due call in
// deadline order. Ties fire in scheduling order. Callbacks may schedule
// further calls; those fire in the same Advance if they fall due within it.
func (s *Scheduler) Advance(dt time.Duration) {
	target := s.now + dt
	for {
		next := s.dueBefore(target)
		if next == nil {
			break
		}
		s.now = next.at
		if !next.cancelled {
			next.fn()
		}
	}
	s.now = target
}

// dueBefore pops the earliest pending handle at or before target, nil when
// none is due.
func (s *Scheduler) dueBefore(target time.Duration) *Handle {
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].at < s.pending[j].at
	})
	if len(s.pending) == 0 || s.pending[0].at > target {
		return nil
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	return next
}
