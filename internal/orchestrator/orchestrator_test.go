package orchestrator

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/microware/internal/config"
	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
	"github.com/vovakirdan/microware/internal/sched"
	"github.com/vovakirdan/microware/internal/storage"
)

// buttonGame wins on Confirm and fails on Down.
type buttonGame struct {
	microgame.Base
	prompt   string
	duration time.Duration
	seen     *core.GameState
}

func (g *buttonGame) Prompt() string          { return g.prompt }
func (g *buttonGame) Duration() time.Duration { return g.duration }

func (g *buttonGame) Setup(r *microgame.Round) {
	if g.seen != nil {
		*g.seen = r.GameState()
	}
}

func (g *buttonGame) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		switch {
		case ev.IsKey(core.ActionConfirm):
			r.Win()
		case ev.IsKey(core.ActionDown):
			r.Fail()
		}
	})
}

type memRecorder struct {
	rounds []storage.RoundRecord
	runs   []storage.RunRecord
	err    error
}

func (m *memRecorder) SaveRound(r storage.RoundRecord) error {
	m.rounds = append(m.rounds, r)
	return m.err
}

func (m *memRecorder) SaveRun(r storage.RunRecord) error {
	m.runs = append(m.runs, r)
	return m.err
}

type harness struct {
	o     *Orchestrator
	s     *sched.Scheduler
	clock *clockwork.FakeClock
	rec   *memRecorder
	cat   *registry.Catalog
}

func newHarness(t *testing.T, cfg config.Config, games ...*buttonGame) *harness {
	t.Helper()
	cat := registry.NewCatalog()
	for _, g := range games {
		d := registry.Descriptor{Key: g.prompt, Prompt: g.prompt, Duration: g.duration}
		if err := cat.Register(d, func() microgame.Microgame { return g }); err != nil {
			t.Fatal(err)
		}
	}
	clock := clockwork.NewFakeClock()
	s := sched.New(clock)
	rec := &memRecorder{}
	o := New(Options{Config: cfg, Catalog: cat, Scheduler: s, Recorder: rec, Seed: 42})
	return &harness{o: o, s: s, clock: clock, rec: rec, cat: cat}
}

// run advances the clock in 10ms frames, ticking the orchestrator.
func (h *harness) run(d time.Duration) {
	const frame = 10 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		h.clock.Advance(frame)
		h.o.Tick()
	}
}

// toPlaying runs the transition until the round starts.
func (h *harness) toPlaying(t *testing.T) {
	t.Helper()
	for i := 0; i < 1000 && h.o.Phase() != Playing; i++ {
		h.run(10 * time.Millisecond)
	}
	if h.o.Phase() != Playing {
		t.Fatalf("never reached playing, phase = %v", h.o.Phase())
	}
}

func (h *harness) press(a core.Action) {
	h.o.HandleInput(core.Key(a, 0))
}

func game(prompt string) *buttonGame {
	return &buttonGame{prompt: prompt, duration: 3 * time.Second}
}

func TestTransitionTimeline(t *testing.T) {
	h := newHarness(t, config.Default(), game("CATCH!"))
	if err := h.o.StartRun(); err != nil {
		t.Fatal(err)
	}

	checks := []struct {
		at        time.Duration
		prompt    string
		countdown int
		flash     bool
		phase     Phase
	}{
		{400 * time.Millisecond, "", 0, false, Transition},
		{600 * time.Millisecond, "", 3, false, Transition},
		{900 * time.Millisecond, "CATCH!", 3, false, Transition},
		{1600 * time.Millisecond, "CATCH!", 2, false, Transition},
		{2600 * time.Millisecond, "CATCH!", 1, false, Transition},
		{3600 * time.Millisecond, "CATCH!", 0, true, Transition},
		{4000 * time.Millisecond, "CATCH!", 0, false, Playing},
	}

	var elapsed time.Duration
	for _, c := range checks {
		h.run(c.at - elapsed)
		elapsed = c.at
		b := h.o.Banner()
		if h.o.Phase() != c.phase || b.Prompt != c.prompt || b.Countdown != c.countdown || b.Flash != c.flash {
			t.Errorf("at %v: phase=%v banner=%+v; expected phase=%v prompt=%q countdown=%d flash=%v",
				c.at, h.o.Phase(), b, c.phase, c.prompt, c.countdown, c.flash)
		}
	}
}

func TestWinLoop(t *testing.T) {
	h := newHarness(t, config.Default(), game("CATCH!"))
	_ = h.o.StartRun()
	h.toPlaying(t)

	h.press(core.ActionConfirm)
	if h.o.Phase() != Result || h.o.Banner().Outcome != Won {
		t.Fatalf("phase = %v outcome = %v after win", h.o.Phase(), h.o.Banner().Outcome)
	}
	gs := h.o.GameState()
	if gs.Score != 100 || gs.GamesCompleted != 1 || gs.Lives != 4 {
		t.Errorf("state after win = %+v", gs)
	}

	h.run(500 * time.Millisecond)
	if h.o.Phase() != Transition {
		t.Errorf("phase = %v after result beat, expected transition", h.o.Phase())
	}
	h.run(300 * time.Millisecond)
	if h.o.Banner().LifeLost {
		t.Error("LIFE LOST shown after a win")
	}
}

func TestLossShowsLifeLost(t *testing.T) {
	h := newHarness(t, config.Default(), game("CATCH!"))
	_ = h.o.StartRun()
	h.toPlaying(t)
	h.press(core.ActionDown)

	if gs := h.o.GameState(); gs.Lives != 3 || gs.GamesCompleted != 1 || gs.Score != 0 {
		t.Errorf("state after loss = %+v", gs)
	}

	h.run(500 * time.Millisecond)
	h.run(290 * time.Millisecond)
	if h.o.Banner().LifeLost {
		t.Error("LIFE LOST shown before its delay")
	}
	h.run(20 * time.Millisecond)
	if !h.o.Banner().LifeLost {
		t.Error("LIFE LOST not shown after a loss")
	}
}

func TestTimeoutCountsAsLoss(t *testing.T) {
	h := newHarness(t, config.Default(), game("CATCH!"))
	_ = h.o.StartRun()
	h.toPlaying(t)

	h.run(3 * time.Second)
	if h.o.Phase() != Result || h.o.Banner().Outcome != Lost {
		t.Fatalf("phase = %v outcome = %v after timeout", h.o.Phase(), h.o.Banner().Outcome)
	}
	if len(h.rec.rounds) != 1 || !h.rec.rounds[0].TimedOut {
		t.Errorf("recorded rounds = %+v", h.rec.rounds)
	}
}

func TestRunEndsAtZeroLives(t *testing.T) {
	cfg := config.Default()
	cfg.Run.InitialLives = 2
	h := newHarness(t, cfg, game("CATCH!"))
	_ = h.o.StartRun()

	for i := 0; i < 2; i++ {
		h.toPlaying(t)
		h.press(core.ActionDown)
		if h.o.GameState().Lives < 0 {
			t.Fatal("lives went negative")
		}
		h.run(500 * time.Millisecond)
	}

	if h.o.Phase() != Idle {
		t.Fatalf("phase = %v at zero lives, expected idle", h.o.Phase())
	}
	last, ok := h.o.LastRun()
	if !ok || !last.Over || last.State.Lives != 0 || last.State.GamesCompleted != 2 {
		t.Errorf("LastRun() = %+v, %v", last, ok)
	}
	if len(h.rec.runs) != 1 || h.rec.runs[0].Rounds != 2 || h.rec.runs[0].RunID != h.o.RunID() {
		t.Errorf("recorded runs = %+v", h.rec.runs)
	}
	if h.s.Pending() != 0 {
		t.Errorf("%d callbacks still pending at idle", h.s.Pending())
	}

	h.run(10 * time.Second)
	if h.o.Phase() != Idle {
		t.Error("orchestrator left idle on its own")
	}
}

func TestDebugRoundReturnsToIdle(t *testing.T) {
	tests := []struct {
		name   string
		action core.Action
		lives  int
	}{
		{"win", core.ActionConfirm, 4},
		{"loss", core.ActionDown, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, config.Default(), game("CATCH!"), game("DODGE!"))
			if err := h.o.StartDebug("DODGE!"); err != nil {
				t.Fatal(err)
			}
			h.toPlaying(t)
			if h.o.Round().Key() != "DODGE!" {
				t.Errorf("debug played %q", h.o.Round().Key())
			}
			if !h.o.Round().GameState().DebugMode {
				t.Error("round did not see debug mode")
			}

			h.press(tc.action)
			h.run(500 * time.Millisecond)

			if h.o.Phase() != Idle {
				t.Fatalf("phase = %v, expected idle", h.o.Phase())
			}
			if gs := h.o.GameState(); gs.Lives != tc.lives || gs.Lives <= 0 {
				t.Errorf("state = %+v", gs)
			}
			if last, _ := h.o.LastRun(); last.Over {
				t.Error("debug round reported game over")
			}
		})
	}
}

func TestDebugLastLifeStillEndsRun(t *testing.T) {
	cfg := config.Default()
	cfg.Run.InitialLives = 1
	h := newHarness(t, cfg, game("CATCH!"))
	_ = h.o.StartDebug("CATCH!")
	h.toPlaying(t)
	h.press(core.ActionDown)
	h.run(500 * time.Millisecond)

	if h.o.Phase() != Idle || h.o.GameState().Lives != 0 {
		t.Errorf("phase = %v state = %+v", h.o.Phase(), h.o.GameState())
	}
}

func TestStartDebugUnknownKey(t *testing.T) {
	h := newHarness(t, config.Default(), game("CATCH!"))
	if err := h.o.StartDebug("nope"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("StartDebug(nope) = %v, expected ErrUnknownGame", err)
	}
	if h.o.Phase() != Idle {
		t.Errorf("phase = %v", h.o.Phase())
	}
}

func TestStartWhileBusy(t *testing.T) {
	h := newHarness(t, config.Default(), game("CATCH!"))
	_ = h.o.StartRun()
	if err := h.o.StartRun(); !errors.Is(err, ErrBusy) {
		t.Errorf("second StartRun() = %v, expected ErrBusy", err)
	}
	if err := h.o.StartDebug("CATCH!"); !errors.Is(err, ErrBusy) {
		t.Errorf("StartDebug() during run = %v, expected ErrBusy", err)
	}
}

func TestEmptyCatalogFallsBackToIdle(t *testing.T) {
	h := newHarness(t, config.Default())
	if err := h.o.StartRun(); err != nil {
		t.Fatal(err)
	}

	h.run(900 * time.Millisecond)
	if h.o.Banner().Prompt != PlaceholderPrompt {
		t.Errorf("prompt = %q, expected placeholder", h.o.Banner().Prompt)
	}
	h.run(5 * time.Second)

	if h.o.Phase() != Idle {
		t.Errorf("phase = %v, expected idle", h.o.Phase())
	}
	if len(h.rec.runs) != 0 {
		t.Error("a run with no rounds was recorded")
	}
}

func TestCatalogEmptiedMidRun(t *testing.T) {
	h := newHarness(t, config.Default(), game("CATCH!"))
	_ = h.o.StartRun()
	h.toPlaying(t)
	h.press(core.ActionConfirm)

	h.o.catalog = registry.NewCatalog()
	h.run(5 * time.Second)

	if h.o.Phase() != Idle {
		t.Errorf("phase = %v, expected idle", h.o.Phase())
	}
	if len(h.rec.runs) != 1 {
		t.Errorf("recorded runs = %d, expected the interrupted run", len(h.rec.runs))
	}
}

type brokenCatalog struct{ registry.Descriptor }

func (b brokenCatalog) List() []registry.Descriptor { return []registry.Descriptor{b.Descriptor} }

func (b brokenCatalog) Resolve(key string) (registry.Factory, error) {
	return nil, registry.ErrUnknownKey
}

func TestUnresolvableGameFallsBackToIdle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := sched.New(clock)
	o := New(Options{
		Catalog:   brokenCatalog{registry.Descriptor{Key: "ghost", Prompt: "BOO!", Duration: 3 * time.Second}},
		Scheduler: s,
		Seed:      1,
	})
	_ = o.StartRun()
	for i := 0; i < 500; i++ {
		clock.Advance(10 * time.Millisecond)
		o.Tick()
	}
	if o.Phase() != Idle {
		t.Errorf("phase = %v, expected idle", o.Phase())
	}
}

func TestGameSeesReadOnlyState(t *testing.T) {
	var seen core.GameState
	g := game("CATCH!")
	g.seen = &seen
	h := newHarness(t, config.Default(), g)
	_ = h.o.StartRun()
	h.toPlaying(t)

	if seen.Lives != 4 || seen.Speed != 1.0 {
		t.Errorf("game saw %+v", seen)
	}
	seen.Lives = 99
	if h.o.GameState().Lives != 4 {
		t.Error("game mutated the orchestrator's state")
	}
}

func TestAbortPlayingCountsAsLoss(t *testing.T) {
	h := newHarness(t, config.Default(), game("CATCH!"))
	_ = h.o.StartRun()
	h.toPlaying(t)

	h.o.Abort()
	if h.o.Phase() != Result || h.o.GameState().Lives != 3 {
		t.Errorf("phase = %v state = %+v", h.o.Phase(), h.o.GameState())
	}

	h.o.Abort()
	if h.o.Phase() != Idle {
		t.Errorf("abort during result: phase = %v, expected idle", h.o.Phase())
	}
	if h.s.Pending() != 0 {
		t.Errorf("%d callbacks pending after abandon", h.s.Pending())
	}
}

func TestRecorderFailureIsNotFatal(t *testing.T) {
	cfg := config.Default()
	cfg.Run.InitialLives = 1
	h := newHarness(t, cfg, game("CATCH!"))
	h.rec.err = errors.New("disk full")
	_ = h.o.StartRun()
	h.toPlaying(t)
	h.press(core.ActionDown)
	h.run(500 * time.Millisecond)

	if h.o.Phase() != Idle {
		t.Errorf("phase = %v", h.o.Phase())
	}
}

func TestRecordedSpeedIsPlayedSpeed(t *testing.T) {
	h := newHarness(t, config.Default(), game("CATCH!"))
	_ = h.o.StartRun()
	for i := 0; i < 5; i++ {
		h.toPlaying(t)
		h.press(core.ActionConfirm)
	}

	if got := h.o.GameState().Speed; got != 1.2 {
		t.Fatalf("speed after five wins = %v, expected 1.2", got)
	}
	if len(h.rec.rounds) != 5 {
		t.Fatalf("recorded %d rounds, expected 5", len(h.rec.rounds))
	}
	for i, r := range h.rec.rounds {
		if r.Speed != 1.0 {
			t.Errorf("round %d recorded speed %v, expected 1.0", i, r.Speed)
		}
	}
}

func TestRoundGetsFreshInstanceAndTeardown(t *testing.T) {
	h := newHarness(t, config.Default(), game("CATCH!"))
	_ = h.o.StartRun()
	h.toPlaying(t)
	r := h.o.Round()
	h.press(core.ActionConfirm)

	if r.State() != microgame.Terminated {
		t.Errorf("round state = %v after resolution, expected terminated", r.State())
	}
	if r.Pending() != 0 || r.Listeners() != 0 {
		t.Errorf("round leaked: pending=%d listeners=%d", r.Pending(), r.Listeners())
	}
}

func TestSelectionIsUniform(t *testing.T) {
	h := newHarness(t, config.Default(), game("A!"), game("B!"), game("C!"))
	counts := map[string]int{}
	const draws = 3000
	for i := 0; i < draws; i++ {
		d, ok := h.o.pick("")
		if !ok {
			t.Fatal("pick failed")
		}
		counts[d.Key]++
	}
	for key, n := range counts {
		if n < draws/3-150 || n > draws/3+150 {
			t.Errorf("%s drawn %d times out of %d", key, n, draws)
		}
	}
	if len(counts) != 3 {
		t.Errorf("drew %d distinct games", len(counts))
	}
}

func TestRender(t *testing.T) {
	h := newHarness(t, config.Default(), game("CATCH!"))
	screen := core.NewScreen(80, 24)

	h.o.Render(screen)
	if !screen.Contains("SPACE start") {
		t.Errorf("title screen missing start hint:\n%s", screen)
	}

	_ = h.o.StartRun()
	h.run(900 * time.Millisecond)
	h.o.Render(screen)
	if !screen.Contains("C A T C H !") || !screen.Contains("♥ ♥ ♥ ♥") {
		t.Errorf("transition screen:\n%s", screen)
	}

	h.toPlaying(t)
	h.o.Render(screen)
	if !screen.Contains("CATCH!") || !screen.Contains("█") {
		t.Errorf("playing screen missing prompt or timer bar:\n%s", screen)
	}

	h.press(core.ActionDown)
	h.o.Render(screen)
	if !screen.Contains("F A I L !") {
		t.Errorf("result screen:\n%s", screen)
	}
}
