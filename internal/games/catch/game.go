// Package catch implements CATCH!: an egg drops from the top of the play
// area and the player slides a basket under it before it lands.
package catch

import (
	"time"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "catch"
	Prompt   = "CATCH!"
	Duration = 5 * time.Second

	BasketWidth = 7
	basketStep  = 2

	// At speed 1 the egg crosses the play area in four seconds; the fall
	// rate grows by half of that for every speed unit.
	baseFallTime = 4.0
)

func init() {
	registry.Register(registry.Descriptor{
		Key:         Key,
		Name:        "Catch the Egg",
		Prompt:      Prompt,
		Duration:    Duration,
		Description: "Move the basket under the falling egg.",
		Controls:    "←/→ or mouse",
	}, func() microgame.Microgame { return New() })
}

// Game is the CATCH! microgame.
type Game struct {
	microgame.Base
	area    core.Rect
	egg     core.Vec
	rate    float64 // rows per second
	basketX int
}

// New creates a CATCH! instance.
func New() *Game {
	return &Game{}
}

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }

func (g *Game) Setup(r *microgame.Round) {
	g.area = r.Bounds()
	g.basketX = g.area.X + (g.area.W-BasketWidth)/2
	g.egg = core.Vec{
		X: float64(g.area.X + 1 + r.Rand().Intn(max(g.area.W-2, 1))),
		Y: float64(g.area.Y),
	}
	g.rate = float64(g.area.H) / baseFallTime * (1 + 0.5*(r.Speed()-1))
}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		switch {
		case ev.IsKey(core.ActionLeft):
			g.moveBasket(g.basketX - basketStep)
		case ev.IsKey(core.ActionRight):
			g.moveBasket(g.basketX + basketStep)
		case ev.Kind == core.PointerMove || ev.Kind == core.PointerDown:
			g.moveBasket(ev.X - BasketWidth/2)
		}
	})
}

func (g *Game) moveBasket(x int) {
	g.basketX = core.Clamp(x, g.area.X, g.area.Right()-BasketWidth)
}

func (g *Game) basketRow() int {
	return g.area.Bottom() - 1
}

func (g *Game) Update(r *microgame.Round, dt time.Duration) {
	g.egg.Y += g.rate * dt.Seconds()
	x, y := g.egg.Cell()
	if y < g.basketRow() {
		return
	}
	if x >= g.basketX && x < g.basketX+BasketWidth {
		r.Win()
	} else {
		r.Fail()
	}
}

func (g *Game) Render(r *microgame.Round, dst *core.Screen) {
	x, y := g.egg.Cell()
	dst.SetColor(x, y, 'O', core.ColorBrightWhite)
	row := g.basketRow()
	dst.SetColor(g.basketX, row, '\\', core.ColorOrange)
	dst.DrawHLine(g.basketX+1, row, BasketWidth-2, '_', core.ColorOrange)
	dst.SetColor(g.basketX+BasketWidth-1, row, '/', core.ColorOrange)
}

// EggX returns the egg's column.
func (g *Game) EggX() int {
	x, _ := g.egg.Cell()
	return x
}

// BasketX returns the basket's left column.
func (g *Game) BasketX() int {
	return g.basketX
}
