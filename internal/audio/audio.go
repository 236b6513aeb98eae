// Package audio turns intent-level commands ("play the title theme", "play a
// random short cue for four seconds") into calls on a Sink. Which cue plays
// is decided here; how it sounds is the sink's business.
package audio

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/microware/internal/sched"
)

// Symbolic cue names.
const (
	CueTitle      = "title"
	CueTransition = "transition"
)

// DefaultShorts is the pool PlayRandomShort draws from.
var DefaultShorts = []string{"short1", "short2", "short3", "short4", "short5", "short6", "short7"}

// Commands is the audio surface the orchestrator and microgames see.
type Commands interface {
	PlayTitle()
	PlayTransition(d time.Duration)
	PlayRandomShort(d time.Duration)
	Effect(name string)
	Stop()
	FadeOut(d time.Duration)
}

// Sink is the backend that actually produces (or reports) sound.
type Sink interface {
	Play(cue string, loop bool, volume float64)
	Stop(cue string)
	Fade(cue string, d time.Duration)
}

// Options configures a Director.
type Options struct {
	Shorts []string
	Volume float64
	Seed   int64
	Logger *log.Logger
}

// Director implements Commands on top of a Sink. At most one music cue
// plays at a time; effects are fire-and-forget.
type Director struct {
	sink    Sink
	group   *sched.Group
	rng     *rand.Rand
	shorts  []string
	volume  float64
	logger  *log.Logger
	current string
	stopper *sched.Handle
}

// NewDirector creates a director whose timed stops run on s.
func NewDirector(s *sched.Scheduler, sink Sink, opts Options) *Director {
	if sink == nil {
		sink = Nop{}
	}
	if len(opts.Shorts) == 0 {
		opts.Shorts = DefaultShorts
	}
	if opts.Volume <= 0 {
		opts.Volume = 0.5
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Director{
		sink:   sink,
		group:  s.Group(),
		rng:    rand.New(rand.NewSource(seed)),
		shorts: append([]string(nil), opts.Shorts...),
		volume: opts.Volume,
		logger: opts.Logger,
	}
}

// PlayTitle loops the title theme.
func (d *Director) PlayTitle() {
	d.start(CueTitle, true, 0)
}

// PlayTransition plays the transition stinger for dur.
func (d *Director) PlayTransition(dur time.Duration) {
	d.start(CueTransition, false, dur)
}

// PlayRandomShort plays a uniformly chosen short cue for dur.
func (d *Director) PlayRandomShort(dur time.Duration) {
	d.start(d.shorts[d.rng.Intn(len(d.shorts))], false, dur)
}

// Effect plays a one-shot sound without touching the current music.
func (d *Director) Effect(name string) {
	d.sink.Play(name, false, d.volume)
}

// Stop silences the current music cue.
func (d *Director) Stop() {
	d.stopper.Cancel()
	if d.current != "" {
		d.sink.Stop(d.current)
		d.current = ""
	}
}

// FadeOut fades the current music over dur, then stops it.
func (d *Director) FadeOut(dur time.Duration) {
	if d.current == "" {
		return
	}
	d.sink.Fade(d.current, dur)
	d.stopper.Cancel()
	d.stopper = d.group.After(dur, d.Stop)
}

// Current returns the cue playing now, or "".
func (d *Director) Current() string {
	return d.current
}

// Close stops music and cancels pending stops.
func (d *Director) Close() {
	d.Stop()
	d.group.Close()
}

func (d *Director) start(cue string, loop bool, dur time.Duration) {
	d.Stop()
	d.current = cue
	d.sink.Play(cue, loop, d.volume)
	if d.logger != nil {
		d.logger.Debug("audio cue", "cue", cue, "loop", loop, "for", dur)
	}
	if dur > 0 {
		d.stopper = d.group.After(dur, d.Stop)
	}
}
