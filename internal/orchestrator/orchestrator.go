// Package orchestrator runs a microware session: it picks microgames from
// the catalog, plays the countdown drama between them, drives each round
// through its lifecycle and folds the outcomes into the run's GameState.
//
// The orchestrator is single-threaded. The host calls Tick once per frame
// and HandleInput for every event; all timing goes through the shared
// sched.Scheduler, so tests can drive a whole run with a fake clock.
package orchestrator

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/microware/internal/audio"
	"github.com/vovakirdan/microware/internal/config"
	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
	"github.com/vovakirdan/microware/internal/sched"
	"github.com/vovakirdan/microware/internal/storage"
)

// PlaceholderPrompt is shown when there is nothing to play.
const PlaceholderPrompt = "GET READY!"

var (
	// ErrBusy is returned when a run is requested while one is in progress.
	ErrBusy = errors.New("orchestrator: run in progress")
	// ErrUnknownGame is returned by StartDebug for a key not in the catalog.
	ErrUnknownGame = errors.New("orchestrator: unknown microgame")
)

// Phase is the orchestrator's position in the screen flow.
type Phase int

const (
	Idle Phase = iota
	Transition
	Playing
	Result
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Transition:
		return "transition"
	case Playing:
		return "playing"
	case Result:
		return "result"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Catalog is the part of the registry the orchestrator needs.
type Catalog interface {
	List() []registry.Descriptor
	Resolve(key string) (registry.Factory, error)
}

// Recorder receives run history. storage.Store implements it.
type Recorder interface {
	SaveRound(storage.RoundRecord) error
	SaveRun(storage.RunRecord) error
}

// Options configures an Orchestrator. Catalog and Scheduler are required.
type Options struct {
	Config    config.Config
	Catalog   Catalog
	Scheduler *sched.Scheduler
	Audio     audio.Commands
	Logger    *log.Logger
	Recorder  Recorder
	Seed      int64
	Width     int
	Height    int
}

// Banner is what the transition and result screens show.
type Banner struct {
	Prompt    string
	Countdown int // 0 when no number is showing
	LifeLost  bool
	Flash     bool
	Outcome   Outcome
}

// Outcome labels the result beat.
type Outcome int

const (
	NoOutcome Outcome = iota
	Won
	Lost
)

// RunSummary describes the most recently finished run.
type RunSummary struct {
	RunID  string
	State  core.GameState
	Over   bool // ended because lives ran out
	Reason string
}

// Orchestrator owns the run's GameState and the active round.
type Orchestrator struct {
	cfg     config.Config
	catalog Catalog
	s       *sched.Scheduler
	audio   audio.Commands
	log     *log.Logger
	rec     Recorder
	rng     *rand.Rand

	beats *sched.Group

	phase     Phase
	state     core.GameState
	banner    Banner
	round     *microgame.Round
	lastLost  bool
	lastTick  time.Time
	runID     string
	startedAt time.Time
	rounds    int
	last      *RunSummary

	width, height int
}

// New creates an idle orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Scheduler == nil {
		opts.Scheduler = sched.New(nil)
	}
	if opts.Catalog == nil {
		opts.Catalog = registry.NewCatalog()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Audio == nil {
		opts.Audio = audio.NewDirector(opts.Scheduler, audio.Nop{}, audio.Options{Seed: opts.Seed})
	}
	if opts.Config.Run.InitialLives == 0 {
		opts.Config = config.Default()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := core.DefaultConfig()
		opts.Width, opts.Height = def.ScreenW, def.ScreenH
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Orchestrator{
		cfg:     opts.Config,
		catalog: opts.Catalog,
		s:       opts.Scheduler,
		audio:   opts.Audio,
		log:     opts.Logger,
		rec:     opts.Recorder,
		rng:     rand.New(rand.NewSource(seed)),
		beats:   opts.Scheduler.Group(),
		state:   core.NewGameState(opts.Config.Run.InitialLives, opts.Config.Run.InitialSpeed),
		width:   opts.Width,
		height:  opts.Height,
	}
}

// EnterTitle plays the title theme. Call it when the title screen shows.
func (o *Orchestrator) EnterTitle() {
	o.audio.PlayTitle()
}

// StartRun begins a fresh run from the title screen.
func (o *Orchestrator) StartRun() error {
	if o.phase != Idle {
		return ErrBusy
	}
	o.reset(false)
	o.log.Info("run started", "run", o.runID, "lives", o.state.Lives, "speed", o.state.Speed)
	o.beginTransition("")
	return nil
}

// StartDebug plays a single chosen microgame with debug mode on; whatever
// the outcome, the orchestrator returns to idle afterwards.
func (o *Orchestrator) StartDebug(key string) error {
	if o.phase != Idle {
		return ErrBusy
	}
	if _, ok := o.describe(key); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGame, key)
	}
	o.reset(true)
	o.log.Info("debug round", "run", o.runID, "game", key)
	o.beginTransition(key)
	return nil
}

func (o *Orchestrator) reset(debug bool) {
	o.state = core.NewGameState(o.cfg.Run.InitialLives, o.cfg.Run.InitialSpeed)
	o.state.DebugMode = debug
	o.runID = uuid.NewString()
	o.startedAt = o.s.Now()
	o.rounds = 0
	o.lastLost = false
	o.last = nil
}

type beat struct {
	at time.Duration
	do func()
}

// beginTransition schedules the between-rounds drama and the hand-off to
// the next round. With an empty catalog it shows the placeholder prompt
// and falls back to idle.
func (o *Orchestrator) beginTransition(forced string) {
	o.phase = Transition
	o.banner = Banner{}
	o.beats.CancelAll()

	desc, ok := o.pick(forced)
	if !ok {
		o.log.Warn("no microgame available", "forced", forced)
	}

	t := o.cfg.Transition
	goAt := t.GoAt()
	beats := []beat{
		{0, func() { o.audio.PlayTransition(goAt + t.Flash) }},
	}
	if o.lastLost {
		beats = append(beats, beat{t.LifeLostDelay, func() { o.banner.LifeLost = true }})
	}
	beats = append(beats, beat{t.PromptDelay, func() {
		if ok {
			o.banner.Prompt = desc.Prompt
		} else {
			o.banner.Prompt = PlaceholderPrompt
		}
	}})
	for i := 0; i < t.CountdownFrom; i++ {
		n := t.CountdownFrom - i
		beats = append(beats, beat{t.CountdownStart + time.Duration(i)*t.CountdownStep, func() { o.banner.Countdown = n }})
	}
	beats = append(beats,
		beat{goAt, func() { o.banner.Countdown = 0; o.banner.Flash = true }},
		beat{goAt + t.Flash, func() {
			o.banner.Flash = false
			if ok {
				o.startRound(desc)
			} else {
				o.finish("empty catalog", false)
			}
		}},
	)

	o.beats.Sequence(toSteps(beats)...)
}

// toSteps orders beats by offset and converts them to relative delays.
func toSteps(beats []beat) []sched.Step {
	sort.SliceStable(beats, func(i, j int) bool { return beats[i].at < beats[j].at })
	steps := make([]sched.Step, len(beats))
	var prev time.Duration
	for i, b := range beats {
		steps[i] = sched.Step{Delay: b.at - prev, Do: b.do}
		prev = b.at
	}
	return steps
}

// pick chooses the next descriptor uniformly from the catalog as it is
// right now. Repeats are allowed.
func (o *Orchestrator) pick(forced string) (registry.Descriptor, bool) {
	if forced != "" {
		return o.describe(forced)
	}
	list := o.catalog.List()
	if len(list) == 0 {
		return registry.Descriptor{}, false
	}
	return list[o.rng.Intn(len(list))], true
}

func (o *Orchestrator) describe(key string) (registry.Descriptor, bool) {
	for _, d := range o.catalog.List() {
		if d.Key == key {
			return d, true
		}
	}
	return registry.Descriptor{}, false
}

func (o *Orchestrator) startRound(desc registry.Descriptor) {
	f, err := o.catalog.Resolve(desc.Key)
	if err != nil {
		o.log.Error("cannot resolve microgame", "game", desc.Key, "err", err)
		o.finish("unresolvable microgame", false)
		return
	}
	game := f()
	if game == nil {
		o.log.Error("microgame constructor returned nil", "game", desc.Key)
		o.finish("unresolvable microgame", false)
		return
	}

	o.round = microgame.NewRound(o.s, game, microgame.Context{
		Key:    desc.Key,
		State:  o.state,
		Seed:   o.rng.Int63(),
		Bounds: o.playArea(),
		Audio:  o.audio,
		Logger: o.log.With("game", desc.Key),
	})
	o.phase = Playing
	o.banner = Banner{Prompt: desc.Prompt}
	o.lastTick = o.s.Now()
	o.log.Info("round started", "game", desc.Key, "prompt", desc.Prompt, "speed", o.state.Speed)

	o.audio.PlayRandomShort(game.Duration())
	if err := o.round.Begin(); err != nil {
		o.log.Error("round did not begin", "game", desc.Key, "err", err)
	}
	o.settle()
}

// playArea leaves the top row for the HUD and the bottom row for the
// timer bar.
func (o *Orchestrator) playArea() core.Rect {
	return core.NewRect(0, 1, o.width, o.height-2)
}

// Tick runs due callbacks and advances the active round.
func (o *Orchestrator) Tick() {
	o.s.Poll()
	if o.phase == Playing && o.round != nil {
		now := o.s.Now()
		dt := now.Sub(o.lastTick)
		o.lastTick = now
		o.round.Update(dt)
	}
	o.settle()
}

// HandleInput forwards an event to the active round.
func (o *Orchestrator) HandleInput(ev core.Event) {
	if o.phase != Playing || o.round == nil {
		return
	}
	o.round.Dispatch(ev)
	o.settle()
}

// Abort skips the current round as a loss, or abandons the run if no
// round is playing.
func (o *Orchestrator) Abort() {
	switch o.phase {
	case Playing:
		if o.round != nil {
			o.round.Abort()
			o.settle()
		}
	case Transition, Result:
		o.beats.CancelAll()
		o.finish("abandoned", false)
	}
}

// settle tears down a resolved round and applies its result.
func (o *Orchestrator) settle() {
	if o.phase != Playing || o.round == nil || !o.round.Resolved() {
		return
	}
	res, _ := o.round.Result()
	o.round.Teardown()
	o.round = nil
	o.audio.Stop()

	speed := o.state.Speed
	applyResult(&o.state, res.Won, o.cfg.Run)
	o.lastLost = !res.Won
	o.rounds++
	o.log.Info("round resolved", "game", res.Key, "won", res.Won, "timed_out", res.TimedOut,
		"elapsed", res.Elapsed, "lives", o.state.Lives, "score", o.state.Score)
	o.record(res, speed)

	o.phase = Result
	o.banner = Banner{Outcome: Lost}
	if res.Won {
		o.banner.Outcome = Won
	}
	o.beats.After(o.cfg.Transition.ResultBeat, o.continueRun)
}

func (o *Orchestrator) continueRun() {
	switch {
	case o.state.Lives <= 0:
		o.finish("out of lives", true)
	case o.state.DebugMode:
		o.finish("debug round finished", false)
	default:
		o.beginTransition("")
	}
}

// finish ends the run and returns to idle.
func (o *Orchestrator) finish(reason string, over bool) {
	if o.round != nil {
		o.round.Teardown()
		o.round = nil
	}
	o.beats.CancelAll()
	o.phase = Idle
	o.banner = Banner{}
	o.last = &RunSummary{RunID: o.runID, State: o.state, Over: over, Reason: reason}
	o.log.Info("run ended", "run", o.runID, "reason", reason, "score", o.state.Score,
		"rounds", o.state.GamesCompleted, "speed", o.state.Speed)

	if o.rec != nil && o.rounds > 0 {
		err := o.rec.SaveRun(storage.RunRecord{
			RunID:     o.runID,
			Score:     o.state.Score,
			Rounds:    o.state.GamesCompleted,
			Speed:     o.state.Speed,
			Debug:     o.state.DebugMode,
			StartedAt: o.startedAt,
			EndedAt:   o.s.Now(),
		})
		if err != nil {
			o.log.Warn("cannot record run", "run", o.runID, "err", err)
		}
	}
	o.audio.PlayTitle()
}

// record stores a resolved round with the speed it was played at.
func (o *Orchestrator) record(res microgame.Result, speed float64) {
	if o.rec == nil {
		return
	}
	err := o.rec.SaveRound(storage.RoundRecord{
		RunID:    o.runID,
		Index:    o.rounds - 1,
		Key:      res.Key,
		Won:      res.Won,
		TimedOut: res.TimedOut,
		Elapsed:  res.Elapsed,
		Speed:    speed,
		PlayedAt: o.s.Now(),
	})
	if err != nil {
		o.log.Warn("cannot record round", "game", res.Key, "err", err)
	}
}

// Close cancels everything the orchestrator scheduled.
func (o *Orchestrator) Close() {
	if o.round != nil {
		o.round.Teardown()
		o.round = nil
	}
	o.beats.Close()
	o.audio.Stop()
	o.phase = Idle
}

// Resize changes the area future rounds are given.
func (o *Orchestrator) Resize(width, height int) {
	if width > 0 && height > 0 {
		o.width, o.height = width, height
	}
}

// Phase returns the current phase.
func (o *Orchestrator) Phase() Phase { return o.phase }

// GameState returns a copy of the run state.
func (o *Orchestrator) GameState() core.GameState { return o.state }

// Banner returns the transition or result view model.
func (o *Orchestrator) Banner() Banner { return o.banner }

// Round returns the active round, or nil.
func (o *Orchestrator) Round() *microgame.Round { return o.round }

// RunID returns the identifier of the current or last run.
func (o *Orchestrator) RunID() string { return o.runID }

// LastRun returns the summary of the most recently finished run.
func (o *Orchestrator) LastRun() (RunSummary, bool) {
	if o.last == nil {
		return RunSummary{}, false
	}
	return *o.last, true
}

// Config returns the configuration the orchestrator runs with.
func (o *Orchestrator) Config() config.Config { return o.cfg }
