// Package dodge implements DODGE!: rocks rain down and the player survives
// by stepping out of the way until the timer runs out.
package dodge

import (
	"math"
	"time"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "dodge"
	Prompt   = "DODGE!"
	Duration = 4 * time.Second

	playerStep = 2
)

func init() {
	registry.Register(registry.Descriptor{
		Key:         Key,
		Name:        "Rock Dodge",
		Prompt:      Prompt,
		Duration:    Duration,
		Description: "Avoid the falling rocks until time runs out.",
		Controls:    "←/→ or mouse",
	}, func() microgame.Microgame { return New() })
}

// SpawnInterval is the delay between rocks at the given speed.
func SpawnInterval(speed float64) time.Duration {
	return time.Duration(500-100*math.Min(speed, 3)) * time.Millisecond
}

// FallRate is the rock speed in rows per second for an area of height h.
// It mirrors 200+100*speed pixels per second on a 600 pixel field.
func FallRate(speed float64, h int) float64 {
	return float64(h) * (200 + 100*speed) / 600
}

// Game is the DODGE! microgame.
type Game struct {
	microgame.Base
	area    core.Rect
	playerX int
	rocks   []core.Vec
	rate    float64
}

// New creates a DODGE! instance.
func New() *Game {
	return &Game{}
}

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }

// WinsOnTimeout makes surviving the whole round a win.
func (g *Game) WinsOnTimeout() bool { return true }

func (g *Game) Setup(r *microgame.Round) {
	g.area = r.Bounds()
	g.playerX = g.area.X + g.area.W/2
	g.rocks = g.rocks[:0]
	g.rate = FallRate(r.Speed(), g.area.H)

	r.Every(SpawnInterval(r.Speed()), func() {
		x := g.area.X + r.Rand().Intn(max(g.area.W, 1))
		g.rocks = append(g.rocks, core.Vec{X: float64(x), Y: float64(g.area.Y)})
	})
}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		switch {
		case ev.IsKey(core.ActionLeft):
			g.movePlayer(g.playerX - playerStep)
		case ev.IsKey(core.ActionRight):
			g.movePlayer(g.playerX + playerStep)
		case ev.Kind == core.PointerMove:
			g.movePlayer(ev.X)
		}
	})
}

func (g *Game) movePlayer(x int) {
	g.playerX = core.Clamp(x, g.area.X, g.area.Right()-1)
}

func (g *Game) playerRow() int {
	return g.area.Bottom() - 1
}

func (g *Game) Update(r *microgame.Round, dt time.Duration) {
	row := g.playerRow()
	kept := g.rocks[:0]
	for i, rock := range g.rocks {
		rock.Y += g.rate * dt.Seconds()
		x, y := rock.Cell()
		if y >= row {
			if x == g.playerX {
				// The rest stay where they are for the final frame.
				g.rocks = append(append(kept, rock), g.rocks[i+1:]...)
				r.Fail()
				return
			}
			continue
		}
		kept = append(kept, rock)
	}
	g.rocks = kept
}

// Drop places a rock directly at (x, y). Used by tests.
func (g *Game) Drop(x, y int) {
	g.rocks = append(g.rocks, core.Vec{X: float64(x), Y: float64(y)})
}

// PlayerX returns the player's column.
func (g *Game) PlayerX() int { return g.playerX }

// Rocks returns the number of rocks in the air.
func (g *Game) Rocks() int { return len(g.rocks) }

func (g *Game) Render(r *microgame.Round, dst *core.Screen) {
	for _, rock := range g.rocks {
		x, y := rock.Cell()
		dst.SetColor(x, y, '●', core.ColorGray)
	}
	dst.SetColor(g.playerX, g.playerRow(), '☺', core.ColorBrightYellow)
}
