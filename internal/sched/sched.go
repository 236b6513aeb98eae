// Package sched is the cooperative scheduler microware runs on.
//
// Nothing here spawns goroutines. Callbacks run from Poll, which the host
// loop calls once per tick, so game logic stays single-threaded. Time comes
// from a clockwork.Clock: clockwork.NewRealClock() in production and a
// FakeClock in tests.
package sched

import (
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cancelable is anything scheduled that can be stopped.
type Cancelable interface {
	Cancel()
	Active() bool
}

type entry struct {
	id        uint64
	due       time.Time
	period    time.Duration
	fn        func()
	cancelled bool
	done      bool
}

func (e *entry) live() bool {
	return !e.cancelled && !e.done
}

// Scheduler holds pending callbacks ordered by due time.
type Scheduler struct {
	clock   clockwork.Clock
	nextID  uint64
	entries []*entry
	polling bool
}

// New creates a scheduler reading time from clock.
func New(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{clock: clock}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// Clock returns the underlying clock.
func (s *Scheduler) Clock() clockwork.Clock {
	return s.clock
}

// After runs fn once, d from now. Negative delays are treated as zero; a
// zero delay runs on the next Poll.
func (s *Scheduler) After(d time.Duration, fn func()) *Handle {
	if d < 0 {
		d = 0
	}
	return s.at(s.clock.Now().Add(d), 0, fn)
}

// Every runs fn every d until cancelled. Missed periods are skipped, not
// replayed. Non-positive periods yield an inert handle.
func (s *Scheduler) Every(d time.Duration, fn func()) *Handle {
	if d <= 0 {
		return &Handle{}
	}
	return s.at(s.clock.Now().Add(d), d, fn)
}

func (s *Scheduler) at(due time.Time, period time.Duration, fn func()) *Handle {
	s.nextID++
	e := &entry{id: s.nextID, due: due, period: period, fn: fn}
	s.entries = append(s.entries, e)
	return &Handle{e: e}
}

// Poll runs every callback due at the current time, in (due, creation)
// order. Callbacks scheduled while polling wait for a later Poll.
// Returns the number of callbacks run.
func (s *Scheduler) Poll() int {
	if s.polling {
		return 0
	}
	s.polling = true
	defer func() { s.polling = false }()

	now := s.clock.Now()
	var due []*entry
	for _, e := range s.entries {
		if e.live() && !e.due.After(now) {
			due = append(due, e)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})

	ran := 0
	for _, e := range due {
		// An earlier callback in this poll may have cancelled it.
		if !e.live() {
			continue
		}
		if e.period > 0 {
			e.due = e.due.Add(e.period)
			if !e.due.After(now) {
				e.due = now.Add(e.period)
			}
		} else {
			e.done = true
		}
		e.fn()
		ran++
	}

	s.compact()
	return ran
}

func (s *Scheduler) compact() {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.live() {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(s.entries); i++ {
		s.entries[i] = nil
	}
	s.entries = kept
}

// Pending returns the number of live callbacks.
func (s *Scheduler) Pending() int {
	n := 0
	for _, e := range s.entries {
		if e.live() {
			n++
		}
	}
	return n
}

// NextDue returns when the earliest live callback is due.
func (s *Scheduler) NextDue() (time.Time, bool) {
	var next time.Time
	found := false
	for _, e := range s.entries {
		if e.live() && (!found || e.due.Before(next)) {
			next, found = e.due, true
		}
	}
	return next, found
}

// Handle refers to one scheduled callback. The zero Handle is inert.
type Handle struct {
	e *entry
}

// Cancel stops the callback. Calling it more than once, or after the
// callback ran, does nothing.
func (h *Handle) Cancel() {
	if h == nil || h.e == nil {
		return
	}
	h.e.cancelled = true
}

// Active reports whether the callback can still run.
func (h *Handle) Active() bool {
	return h != nil && h.e != nil && h.e.live()
}
