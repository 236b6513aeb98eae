// Package gametest drives a single microgame round on a fake clock.
package gametest

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/sched"
)

// Frame is the step used by Run, one 60 Hz tick.
const Frame = time.Second / 60

// Harness owns the scheduler, clock and round of one test.
type Harness struct {
	T      *testing.T
	Clock  *clockwork.FakeClock
	Sched  *sched.Scheduler
	Round  *microgame.Round
	Effect []string
}

// Options tune the round a harness starts.
type Options struct {
	Speed  float64
	Seed   int64
	Bounds core.Rect
}

// Start begins a round of g and fails the test if Begin errors.
func Start(t *testing.T, key string, g microgame.Microgame, opts Options) *Harness {
	t.Helper()
	if opts.Speed == 0 {
		opts.Speed = 1
	}
	clock := clockwork.NewFakeClock()
	s := sched.New(clock)
	h := &Harness{T: t, Clock: clock, Sched: s}
	h.Round = microgame.NewRound(s, g, microgame.Context{
		Key:    key,
		State:  core.NewGameState(4, opts.Speed),
		Seed:   opts.Seed,
		Bounds: opts.Bounds,
		Audio:  &recorder{h: h},
	})
	if err := h.Round.Begin(); err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	t.Cleanup(h.Round.Teardown)
	return h
}

// Send dispatches events to the round in order.
func (h *Harness) Send(evs ...core.Event) {
	for _, ev := range evs {
		h.Round.Dispatch(ev)
	}
}

// Type sends one key-down event per rune of s.
func (h *Harness) Type(s string) {
	for _, r := range s {
		h.Round.Dispatch(core.Key(core.ActionNone, r))
	}
}

// Step advances the clock by d, polls the scheduler and updates the round.
func (h *Harness) Step(d time.Duration) {
	h.Clock.Advance(d)
	h.Sched.Poll()
	h.Round.Update(d)
}

// Run steps frame by frame for d, or until the round resolves.
func (h *Harness) Run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d && !h.Round.Resolved(); elapsed += Frame {
		h.Step(Frame)
	}
}

// Result returns the round's result, failing the test if it is unresolved.
func (h *Harness) Result() microgame.Result {
	h.T.Helper()
	res, ok := h.Round.Result()
	if !ok {
		h.T.Fatalf("round %s unresolved in state %s", h.Round.Key(), h.Round.State())
	}
	return res
}

// Render draws the round onto a fresh screen matching its bounds.
func (h *Harness) Render() *core.Screen {
	b := h.Round.Bounds()
	scr := core.NewScreen(b.Right(), b.Bottom())
	h.Round.Render(scr)
	return scr
}

// recorder captures effects and ignores music cues.
type recorder struct {
	h *Harness
}

func (r *recorder) PlayTitle()                    {}
func (r *recorder) PlayTransition(time.Duration)  {}
func (r *recorder) PlayRandomShort(time.Duration) {}
func (r *recorder) Effect(name string)            { r.h.Effect = append(r.h.Effect, name) }
func (r *recorder) Stop()                         {}
func (r *recorder) FadeOut(time.Duration)         {}
