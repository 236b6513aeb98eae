package bounce

import (
	"testing"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/games/gametest"
)

func TestPaddleHeight(t *testing.T) {
	tests := []struct {
		h, want int
	}{
		{10, 3},
		{24, 4},
		{35, 7},
		{60, 7},
	}
	for _, tt := range tests {
		if got := PaddleHeight(tt.h); got != tt.want {
			t.Errorf("PaddleHeight(%d) = %d, expected %d", tt.h, got, tt.want)
		}
	}
}

func TestTrackingBallWins(t *testing.T) {
	for _, speed := range []float64{1, 2, 3} {
		for seed := int64(1); seed <= 5; seed++ {
			g := New()
			h := gametest.Start(t, Key, g, gametest.Options{Speed: speed, Seed: seed})
			for i := 0; i < 400 && !h.Round.Resolved(); i++ {
				_, y := g.Ball().Cell()
				h.Send(core.Pointer(core.PointerMove, 40, y))
				h.Step(gametest.Frame)
			}
			res := h.Result()
			if !res.Won || res.TimedOut {
				t.Errorf("speed %v seed %d: result = %+v, expected a return", speed, seed, res)
			}
			if len(h.Effect) != 1 || h.Effect[0] != "pong" {
				t.Errorf("effects = %v, expected [pong]", h.Effect)
			}
		}
	}
}

func TestMissFails(t *testing.T) {
	g := New()
	h := gametest.Start(t, Key, g, gametest.Options{})
	h.Send(core.Pointer(core.PointerMove, 40, 0))
	g.Serve(40, 23, -BallSpeed, 0)
	h.Run(Duration)
	res := h.Result()
	if res.Won || res.TimedOut {
		t.Errorf("result = %+v, expected the ball to get past", res)
	}
}

func TestWallsReflect(t *testing.T) {
	g := New()
	h := gametest.Start(t, Key, g, gametest.Options{})
	g.Serve(40, 1, -BallSpeed, -BallSpeed)
	h.Step(gametest.Frame * 6)
	if g.vel.Y <= 0 {
		t.Errorf("vertical velocity %v after the top wall, expected downward", g.vel.Y)
	}
	g.Serve(78, 12, BallSpeed, 0)
	h.Step(gametest.Frame * 6)
	if g.vel.X >= 0 {
		t.Errorf("horizontal velocity %v after the right wall, expected leftward", g.vel.X)
	}
}

func TestPaddleKeysClamp(t *testing.T) {
	g := New()
	h := gametest.Start(t, Key, g, gametest.Options{})
	for range 20 {
		h.Send(core.Key(core.ActionUp, 0))
	}
	if y, _ := g.Paddle(); y != 0 {
		t.Errorf("paddle at %d, expected 0", y)
	}
	for range 20 {
		h.Send(core.Key(core.ActionDown, 0))
	}
	if y, height := g.Paddle(); y != 24-height {
		t.Errorf("paddle at %d, expected %d", y, 24-height)
	}
}

func TestBounceRender(t *testing.T) {
	h := gametest.Start(t, Key, New(), gametest.Options{})
	scr := h.Render()
	for _, want := range []string{"█", "●", "│"} {
		if !scr.Contains(want) {
			t.Errorf("render missing %q:\n%s", want, scr)
		}
	}
}
