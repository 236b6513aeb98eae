package flap

import (
	"testing"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/games/gametest"
)

// play steps frame by frame, flapping every `every` frames (never when 0).
func play(h *gametest.Harness, every int) {
	for i := 0; i < 400 && !h.Round.Resolved(); i++ {
		if every > 0 && i%every == 0 {
			h.Send(core.Key(core.ActionPrimary, ' '))
		}
		h.Step(gametest.Frame)
	}
}

func TestFallingFails(t *testing.T) {
	h := gametest.Start(t, Key, New(), gametest.Options{})
	play(h, 0)
	res := h.Result()
	if res.Won || res.TimedOut {
		t.Errorf("result = %+v, expected hitting the floor", res)
	}
}

func TestSteadyFlappingWins(t *testing.T) {
	g := New()
	h := gametest.Start(t, Key, g, gametest.Options{})
	play(h, 60)
	res := h.Result()
	if !res.Won || !res.TimedOut {
		t.Errorf("result = %+v at y=%.1f, expected surviving the round", res, g.Y())
	}
}

func TestFlappingTooMuchHitsCeiling(t *testing.T) {
	h := gametest.Start(t, Key, New(), gametest.Options{})
	play(h, 1)
	res := h.Result()
	if res.Won || res.TimedOut {
		t.Errorf("result = %+v, expected hitting the ceiling", res)
	}
}

func TestFlapRender(t *testing.T) {
	h := gametest.Start(t, Key, New(), gametest.Options{})
	h.Send(core.Key(core.ActionPrimary, ' '))
	if !h.Render().Contains("^") {
		t.Error("expected a rising feather")
	}
}
