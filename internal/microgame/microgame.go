// Package microgame defines the contract every microgame implements and the
// Round that drives one instance of it from setup to teardown.
//
// A microgame is pure logic: it never touches the terminal, the clock or the
// audio device directly. Everything it needs comes through the *Round it is
// handed, which is what lets a round guarantee that nothing a game scheduled
// survives teardown.
package microgame

import (
	"time"

	"github.com/vovakirdan/microware/internal/core"
)

// Microgame is one short timed challenge.
type Microgame interface {
	// Prompt is the one-word instruction shown before the round ("DODGE!").
	Prompt() string

	// Duration is how long the player has before the round times out.
	Duration() time.Duration

	// Setup builds the round's initial state. GameState is available
	// through r but must not be modified.
	Setup(r *Round)

	// WireInput registers input handlers with r.OnInput. Called after the
	// timer starts; events are only delivered while the round is playing.
	WireInput(r *Round)

	// Update advances the simulation by dt. May be a no-op.
	Update(r *Round, dt time.Duration)

	// Render draws the round into dst, which is pre-cleared.
	Render(r *Round, dst *core.Screen)

	// Teardown releases anything the game holds outside the round.
	// Timers and input handlers registered through r are already gone.
	Teardown(r *Round)
}

// TimeoutWinner is implemented by survival-style microgames that win when
// the timer runs out rather than lose.
type TimeoutWinner interface {
	WinsOnTimeout() bool
}

// Base provides no-op Update, Render and Teardown for microgames that only
// need some of them.
type Base struct{}

func (Base) Update(*Round, time.Duration) {}
func (Base) Render(*Round, *core.Screen)  {}
func (Base) Teardown(*Round)              {}

// winsOnTimeout reports whether g opted into auto-win.
func winsOnTimeout(g Microgame) bool {
	tw, ok := g.(TimeoutWinner)
	return ok && tw.WinsOnTimeout()
}
