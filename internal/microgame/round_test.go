package microgame

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/sched"
)

// stubGame records lifecycle calls and lets tests poke the round.
type stubGame struct {
	Base
	duration      time.Duration
	winOnTimeout  bool
	setupState    State
	wireState     State
	teardowns     int
	updates       int
	events        []core.Event
	scheduledRuns int
	onSetup       func(r *Round)
}

func (g *stubGame) Prompt() string          { return "STUB!" }
func (g *stubGame) Duration() time.Duration { return g.duration }
func (g *stubGame) WinsOnTimeout() bool     { return g.winOnTimeout }

func (g *stubGame) Setup(r *Round) {
	g.setupState = r.State()
	if g.onSetup != nil {
		g.onSetup(r)
	}
}

func (g *stubGame) WireInput(r *Round) {
	g.wireState = r.State()
	r.OnInput(func(ev core.Event) {
		g.events = append(g.events, ev)
		if ev.IsKey(core.ActionPrimary) {
			r.Win()
		}
	})
}

func (g *stubGame) Update(*Round, time.Duration) { g.updates++ }
func (g *stubGame) Teardown(*Round)              { g.teardowns++ }

func newRound(g *stubGame) (*Round, *sched.Scheduler, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	s := sched.New(clock)
	r := NewRound(s, g, Context{Key: "stub", State: core.NewGameState(4, 1.0), Seed: 1})
	return r, s, clock
}

func TestBeginWalksSetupThenPlaying(t *testing.T) {
	g := &stubGame{duration: time.Second}
	r, _, _ := newRound(g)

	if err := r.Begin(); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if g.setupState != SettingUp {
		t.Errorf("Setup saw %v, expected setting-up", g.setupState)
	}
	if g.wireState != Playing {
		t.Errorf("WireInput saw %v, expected playing", g.wireState)
	}
	if r.Remaining() != time.Second {
		t.Errorf("Remaining() = %v, expected 1s", r.Remaining())
	}
	if err := r.Begin(); err != ErrNotCreated {
		t.Errorf("second Begin() = %v, expected ErrNotCreated", err)
	}
}

func TestFirstResolutionWins(t *testing.T) {
	tests := []struct {
		name    string
		first   func(r *Round) bool
		second  func(r *Round) bool
		wantWon bool
	}{
		{"win then fail", (*Round).Win, (*Round).Fail, true},
		{"fail then win", (*Round).Fail, (*Round).Win, false},
		{"win twice", (*Round).Win, (*Round).Win, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _, _ := newRound(&stubGame{duration: time.Second})
			_ = r.Begin()

			if !tc.first(r) {
				t.Fatal("first resolution reported no effect")
			}
			if tc.second(r) {
				t.Error("second resolution reported an effect")
			}
			res, ok := r.Result()
			if !ok || res.Won != tc.wantWon {
				t.Errorf("Result() = %+v, %v; expected won=%v", res, ok, tc.wantWon)
			}
		})
	}
}

func TestTimeoutResolution(t *testing.T) {
	tests := []struct {
		name         string
		winOnTimeout bool
		wantWon      bool
	}{
		{"defaults to fail", false, false},
		{"opt-in win", true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, s, clock := newRound(&stubGame{duration: 3 * time.Second, winOnTimeout: tc.winOnTimeout})
			_ = r.Begin()

			clock.Advance(3 * time.Second)
			s.Poll()

			res, ok := r.Result()
			if !ok {
				t.Fatal("round not resolved after its duration")
			}
			if res.Won != tc.wantWon || !res.TimedOut {
				t.Errorf("Result() = %+v", res)
			}
			if res.Elapsed != 3*time.Second {
				t.Errorf("Elapsed = %v, expected 3s", res.Elapsed)
			}
		})
	}
}

func TestExplicitFailBeatsLaterTimeout(t *testing.T) {
	r, s, clock := newRound(&stubGame{duration: time.Second, winOnTimeout: true})
	_ = r.Begin()
	r.Fail()

	clock.Advance(time.Second)
	s.Poll()

	res, _ := r.Result()
	if res.Won || res.TimedOut {
		t.Errorf("Result() = %+v, expected explicit fail", res)
	}
}

func TestDurationEdgeCases(t *testing.T) {
	t.Run("negative fails at once", func(t *testing.T) {
		g := &stubGame{duration: -time.Second}
		r, _, _ := newRound(g)
		_ = r.Begin()

		res, ok := r.Result()
		if !ok || res.Won {
			t.Errorf("Result() = %+v, %v; expected immediate fail", res, ok)
		}
		if g.wireState == Playing {
			t.Error("input was wired for a rejected round")
		}
	})

	t.Run("zero expires on next poll", func(t *testing.T) {
		r, s, _ := newRound(&stubGame{duration: 0})
		_ = r.Begin()
		if r.Resolved() {
			t.Fatal("resolved before any poll")
		}
		s.Poll()
		res, ok := r.Result()
		if !ok || res.Won || !res.TimedOut {
			t.Errorf("Result() = %+v, %v", res, ok)
		}
	})
}

func TestDispatchOnlyWhilePlaying(t *testing.T) {
	g := &stubGame{duration: time.Second}
	r, _, _ := newRound(g)

	r.Dispatch(core.Key(core.ActionUp, 0))
	_ = r.Begin()
	r.Dispatch(core.Key(core.ActionUp, 0))
	r.Dispatch(core.Key(core.ActionPrimary, ' '))
	r.Dispatch(core.Key(core.ActionUp, 0))

	if len(g.events) != 2 {
		t.Errorf("delivered %d events, expected 2", len(g.events))
	}
	if res, _ := r.Result(); !res.Won {
		t.Error("primary key should have won the round")
	}
}

func TestOnInputDetach(t *testing.T) {
	r, _, _ := newRound(&stubGame{duration: time.Second})
	_ = r.Begin()

	count := 0
	detach := r.OnInput(func(core.Event) { count++ })
	r.Dispatch(core.Key(core.ActionUp, 0))
	detach()
	detach()
	r.Dispatch(core.Key(core.ActionUp, 0))

	if count != 1 {
		t.Errorf("count = %d, expected 1", count)
	}
}

func TestTeardownReleasesEverything(t *testing.T) {
	g := &stubGame{duration: 5 * time.Second}
	g.onSetup = func(r *Round) {
		r.After(time.Second, func() { g.scheduledRuns++ })
		r.Every(100*time.Millisecond, func() { g.scheduledRuns++ })
	}
	r, s, clock := newRound(g)
	_ = r.Begin()
	r.Win()

	r.Teardown()
	r.Teardown()

	if r.State() != Terminated {
		t.Errorf("State() = %v, expected terminated", r.State())
	}
	if g.teardowns != 1 {
		t.Errorf("game Teardown ran %d times", g.teardowns)
	}
	if r.Pending() != 0 || r.Listeners() != 0 {
		t.Errorf("leak: pending=%d listeners=%d", r.Pending(), r.Listeners())
	}

	clock.Advance(10 * time.Second)
	s.Poll()
	if g.scheduledRuns != 0 {
		t.Errorf("%d callbacks ran after teardown", g.scheduledRuns)
	}
	if s.Pending() != 0 {
		t.Errorf("scheduler still holds %d callbacks", s.Pending())
	}
	if h := r.After(0, func() { g.scheduledRuns++ }); h.Active() {
		t.Error("terminated round accepted new work")
	}
}

func TestTeardownAbortsOpenRound(t *testing.T) {
	r, _, _ := newRound(&stubGame{duration: time.Second})
	_ = r.Begin()
	r.Teardown()

	res, ok := r.Result()
	if !ok || res.Won || !res.Aborted {
		t.Errorf("Result() = %+v, %v; expected aborted fail", res, ok)
	}
}

func TestUpdateOnlyWhilePlaying(t *testing.T) {
	g := &stubGame{duration: time.Second}
	r, _, _ := newRound(g)
	r.Update(time.Millisecond)
	_ = r.Begin()
	r.Update(time.Millisecond)
	r.Fail()
	r.Update(time.Millisecond)

	if g.updates != 1 {
		t.Errorf("updates = %d, expected 1", g.updates)
	}
}

func TestGameStateIsACopy(t *testing.T) {
	r, _, _ := newRound(&stubGame{duration: time.Second})
	gs := r.GameState()
	gs.Lives = 0
	if r.GameState().Lives != 4 {
		t.Error("mutating the returned GameState leaked into the round")
	}
	if r.Speed() != 1.0 {
		t.Errorf("Speed() = %v", r.Speed())
	}
}
