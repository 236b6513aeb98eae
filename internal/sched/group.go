package sched

import "time"

// Group scopes a set of callbacks so they can be torn down together.
// Once closed, a group refuses new work and hands back inert handles.
type Group struct {
	s      *Scheduler
	items  []Cancelable
	closed bool
}

// Group creates an empty group on the scheduler.
func (s *Scheduler) Group() *Group {
	return &Group{s: s}
}

// Scheduler returns the scheduler the group belongs to.
func (g *Group) Scheduler() *Scheduler {
	return g.s
}

// Now returns the scheduler's current time.
func (g *Group) Now() time.Time {
	return g.s.Now()
}

// After schedules fn once, d from now.
func (g *Group) After(d time.Duration, fn func()) *Handle {
	if g.closed {
		return &Handle{}
	}
	h := g.s.After(d, fn)
	g.track(h)
	return h
}

// Every schedules fn every d.
func (g *Group) Every(d time.Duration, fn func()) *Handle {
	if g.closed {
		return &Handle{}
	}
	h := g.s.Every(d, fn)
	g.track(h)
	return h
}

// Sequence starts steps inside the group.
func (g *Group) Sequence(steps ...Step) *Sequence {
	if g.closed {
		return &Sequence{cancelled: true}
	}
	q := g.s.Sequence(steps...)
	g.track(q)
	return q
}

func (g *Group) track(c Cancelable) {
	kept := g.items[:0]
	for _, it := range g.items {
		if it.Active() {
			kept = append(kept, it)
		}
	}
	g.items = append(kept, c)
}

// CancelAll cancels everything scheduled so far. The group stays usable.
func (g *Group) CancelAll() {
	for _, it := range g.items {
		it.Cancel()
	}
	g.items = nil
}

// Close cancels everything and refuses further scheduling.
func (g *Group) Close() {
	g.CancelAll()
	g.closed = true
}

// Closed reports whether Close was called.
func (g *Group) Closed() bool {
	return g.closed
}

// Active returns the number of callbacks or sequences still pending.
func (g *Group) Active() int {
	n := 0
	for _, it := range g.items {
		if it.Active() {
			n++
		}
	}
	return n
}
