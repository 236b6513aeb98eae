package microgame

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/microware/internal/audio"
	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/sched"
)

// State is a round's lifecycle position.
type State int

const (
	Created State = iota
	SettingUp
	Playing
	Resolved
	CleaningUp
	Terminated
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case SettingUp:
		return "setting-up"
	case Playing:
		return "playing"
	case Resolved:
		return "resolved"
	case CleaningUp:
		return "cleaning-up"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNotCreated is returned by Begin on a round that already began.
var ErrNotCreated = errors.New("microgame: round already begun")

// Result is the outcome of one round. Exactly one is produced per round.
type Result struct {
	Key      string
	Won      bool
	TimedOut bool
	Aborted  bool
	Elapsed  time.Duration
}

// Context is what the orchestrator hands a round.
type Context struct {
	Key    string
	State  core.GameState
	Seed   int64
	Bounds core.Rect
	Audio  audio.Commands
	Logger *log.Logger
}

type listener struct {
	id int
	fn func(core.Event)
}

// Round runs one microgame instance through its lifecycle:
// Created → SettingUp → Playing → Resolved → CleaningUp → Terminated.
type Round struct {
	ctx       Context
	game      Microgame
	group     *sched.Group
	timer     *sched.Timer
	rng       *rand.Rand
	state     State
	result    Result
	listeners []listener
	nextID    int
	startedAt time.Time
}

// NewRound prepares a round for game. Nothing runs until Begin.
func NewRound(s *sched.Scheduler, game Microgame, ctx Context) *Round {
	if ctx.Audio == nil {
		ctx.Audio = audio.NewDirector(s, audio.Nop{}, audio.Options{Seed: ctx.Seed})
	}
	if ctx.Logger == nil {
		ctx.Logger = log.New(io.Discard)
	}
	if ctx.Bounds.W == 0 || ctx.Bounds.H == 0 {
		cfg := core.DefaultConfig()
		ctx.Bounds = core.NewRect(0, 0, cfg.ScreenW, cfg.ScreenH)
	}
	r := &Round{
		ctx:   ctx,
		game:  game,
		group: s.Group(),
		rng:   rand.New(rand.NewSource(ctx.Seed)),
	}
	r.timer = sched.NewTimer(r.group, r.expire)
	return r
}

// Begin runs setup, starts the timer and wires input. A microgame whose
// duration the timer rejects fails immediately.
func (r *Round) Begin() error {
	if r.state != Created {
		return ErrNotCreated
	}
	r.state = SettingUp
	r.startedAt = r.group.Now()
	r.game.Setup(r)
	if r.state != SettingUp {
		return nil
	}

	if err := r.timer.Start(r.game.Duration()); err != nil {
		r.ctx.Logger.Warn("microgame rejected", "key", r.ctx.Key, "duration", r.game.Duration(), "err", err)
		r.resolve(false, false)
		return nil
	}

	r.state = Playing
	r.game.WireInput(r)
	return nil
}

// Win resolves the round as won. Only the first Win or Fail counts;
// it reports whether this call decided the round.
func (r *Round) Win() bool {
	return r.resolve(true, false)
}

// Fail resolves the round as lost. Only the first Win or Fail counts.
func (r *Round) Fail() bool {
	return r.resolve(false, false)
}

func (r *Round) expire() {
	r.resolveTimeout()
}

func (r *Round) resolveTimeout() {
	if r.state != Playing && r.state != SettingUp {
		return
	}
	r.resolveWith(Result{Won: winsOnTimeout(r.game), TimedOut: true})
}

func (r *Round) resolve(won, aborted bool) bool {
	if r.state != Playing && r.state != SettingUp {
		return false
	}
	r.resolveWith(Result{Won: won, Aborted: aborted})
	return true
}

func (r *Round) resolveWith(res Result) {
	res.Key = r.ctx.Key
	res.Elapsed = r.group.Now().Sub(r.startedAt)
	r.result = res
	r.state = Resolved
	r.timer.Cancel()
}

// Abort ends an unresolved round as a loss, e.g. when the player skips it.
// It reports whether the round was still open.
func (r *Round) Abort() bool {
	return r.resolve(false, true)
}

// Dispatch delivers an input event to the game's handlers. Events are
// dropped unless the round is playing.
func (r *Round) Dispatch(ev core.Event) {
	if r.state != Playing {
		return
	}
	snapshot := append([]listener(nil), r.listeners...)
	for _, l := range snapshot {
		if r.state != Playing {
			return
		}
		if r.listening(l.id) {
			l.fn(ev)
		}
	}
}

func (r *Round) listening(id int) bool {
	for _, l := range r.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}

// Update advances the game while it is playing.
func (r *Round) Update(dt time.Duration) {
	if r.state == Playing {
		r.game.Update(r, dt)
	}
}

// Render draws the game. A resolved round keeps showing its last frame.
func (r *Round) Render(dst *core.Screen) {
	if r.state == Playing || r.state == Resolved {
		r.game.Render(r, dst)
	}
}

// Teardown releases the round. Anything it scheduled is cancelled and its
// input handlers are detached before the game's own Teardown runs. An
// unresolved round is aborted first. Safe to call more than once.
func (r *Round) Teardown() {
	switch r.state {
	case CleaningUp, Terminated:
		return
	case Created:
		r.state = Terminated
		r.group.Close()
		return
	}
	r.Abort()

	r.state = CleaningUp
	r.timer.Cancel()
	r.group.Close()
	r.listeners = nil
	r.game.Teardown(r)
	r.state = Terminated
}

// OnInput registers fn for input events and returns a function that
// detaches it.
func (r *Round) OnInput(fn func(core.Event)) (detach func()) {
	if r.state >= Resolved {
		return func() {}
	}
	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range r.listeners {
			if l.id == id {
				r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

// After schedules fn on the round. It never runs once cleanup starts.
func (r *Round) After(d time.Duration, fn func()) *sched.Handle {
	return r.group.After(d, r.guard(fn))
}

// Every schedules fn periodically on the round.
func (r *Round) Every(d time.Duration, fn func()) *sched.Handle {
	return r.group.Every(d, r.guard(fn))
}

func (r *Round) guard(fn func()) func() {
	return func() {
		if r.state < CleaningUp {
			fn()
		}
	}
}

// State returns the lifecycle position.
func (r *Round) State() State { return r.state }

// Key returns the registry key of the microgame.
func (r *Round) Key() string { return r.ctx.Key }

// Game returns the microgame instance.
func (r *Round) Game() Microgame { return r.game }

// GameState returns a copy of the run's progression state.
func (r *Round) GameState() core.GameState { return r.ctx.State }

// Speed is shorthand for GameState().Speed.
func (r *Round) Speed() float64 { return r.ctx.State.Speed }

// Rand returns the round's seeded random source.
func (r *Round) Rand() *rand.Rand { return r.rng }

// Bounds returns the play area.
func (r *Round) Bounds() core.Rect { return r.ctx.Bounds }

// Audio returns the audio commands for the run.
func (r *Round) Audio() audio.Commands { return r.ctx.Audio }

// Logger returns the round logger.
func (r *Round) Logger() *log.Logger { return r.ctx.Logger }

// Now returns the scheduler time.
func (r *Round) Now() time.Time { return r.group.Now() }

// Remaining returns the time left on the round timer.
func (r *Round) Remaining() time.Duration { return r.timer.Remaining() }

// Fraction returns the share of the round timer still left.
func (r *Round) Fraction() float64 { return r.timer.Fraction() }

// Resolved reports whether the outcome is decided.
func (r *Round) Resolved() bool { return r.state >= Resolved }

// Result returns the outcome once the round resolved.
func (r *Round) Result() (Result, bool) {
	return r.result, r.state >= Resolved
}

// Pending returns the number of callbacks the round still has scheduled,
// the round timer included.
func (r *Round) Pending() int { return r.group.Active() }

// Listeners returns the number of attached input handlers.
func (r *Round) Listeners() int { return len(r.listeners) }
