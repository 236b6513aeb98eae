package catch

import (
	"testing"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/games/gametest"
)

func TestCatchUnderEggWins(t *testing.T) {
	g := New()
	h := gametest.Start(t, Key, g, gametest.Options{Seed: 7})

	h.Send(core.Pointer(core.PointerMove, g.EggX(), 0))
	h.Run(Duration)

	res := h.Result()
	if !res.Won || res.TimedOut {
		t.Errorf("result = %+v, expected a catch", res)
	}
}

func TestCatchMissFails(t *testing.T) {
	g := New()
	h := gametest.Start(t, Key, g, gametest.Options{Seed: 7})

	far := 0
	if g.EggX() < 40 {
		far = 79
	}
	h.Send(core.Pointer(core.PointerMove, far, 0))
	h.Run(Duration)

	res := h.Result()
	if res.Won || res.TimedOut {
		t.Errorf("result = %+v, expected the egg to land", res)
	}
}

func TestCatchBasketKeysClamp(t *testing.T) {
	g := New()
	h := gametest.Start(t, Key, g, gametest.Options{})

	start := g.BasketX()
	h.Send(core.Key(core.ActionRight, 0))
	if g.BasketX() != start+basketStep {
		t.Errorf("BasketX() = %d after Right, expected %d", g.BasketX(), start+basketStep)
	}
	for range 50 {
		h.Send(core.Key(core.ActionLeft, 0))
	}
	if g.BasketX() != 0 {
		t.Errorf("BasketX() = %d, expected clamp at 0", g.BasketX())
	}
	for range 50 {
		h.Send(core.Key(core.ActionRight, 0))
	}
	if g.BasketX() != 80-BasketWidth {
		t.Errorf("BasketX() = %d, expected clamp at %d", g.BasketX(), 80-BasketWidth)
	}
}

func TestCatchFallsFasterAtSpeed(t *testing.T) {
	landing := func(speed float64) float64 {
		g := New()
		h := gametest.Start(t, Key, g, gametest.Options{Speed: speed, Seed: 3})
		h.Send(core.Pointer(core.PointerMove, g.EggX(), 0))
		h.Run(Duration)
		return h.Result().Elapsed.Seconds()
	}
	slow, fast := landing(1), landing(2)
	if fast >= slow {
		t.Errorf("landing at speed 2 took %.2fs, speed 1 took %.2fs", fast, slow)
	}
}

func TestCatchRender(t *testing.T) {
	g := New()
	h := gametest.Start(t, Key, g, gametest.Options{})
	scr := h.Render()
	if scr.Get(g.EggX(), 0) != 'O' {
		t.Errorf("egg not drawn at (%d, 0)", g.EggX())
	}
	if !scr.Contains(`\_____/`) {
		t.Errorf("basket not drawn:\n%s", scr)
	}
}
