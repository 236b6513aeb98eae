// Package flap implements FLAP!: keep a feather aloft with space. Touching
// the floor or the ceiling loses; staying up until time runs out wins.
package flap

import (
	"time"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "flap"
	Prompt   = "FLAP!"
	Duration = 4 * time.Second

	// Rows per second squared and rows per second, at speed 1.
	Gravity     = 18.0
	FlapImpulse = -9.0
	MaxFall     = 14.0
)

func init() {
	registry.Register(registry.Descriptor{
		Key:         Key,
		Name:        "Flappy Feather",
		Prompt:      Prompt,
		Duration:    Duration,
		Description: "Keep the feather in the air until time runs out.",
		Controls:    "Space",
	}, func() microgame.Microgame { return New() })
}

// Game is the FLAP! microgame.
type Game struct {
	microgame.Base
	area    core.Rect
	y, vel  float64
	gravity float64
}

// New creates a FLAP! instance.
func New() *Game {
	return &Game{}
}

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }

// WinsOnTimeout makes staying airborne for the whole round a win.
func (g *Game) WinsOnTimeout() bool { return true }

func (g *Game) Setup(r *microgame.Round) {
	g.area = r.Bounds()
	g.y = float64(g.area.Y) + float64(g.area.H)/2
	g.vel = 0
	g.gravity = r.GameState().Scale(Gravity)
}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		if ev.IsKey(core.ActionPrimary) || ev.IsKey(core.ActionUp) {
			g.vel = FlapImpulse
		}
	})
}

func (g *Game) Update(r *microgame.Round, dt time.Duration) {
	s := dt.Seconds()
	g.vel = core.ClampF(g.vel+g.gravity*s, FlapImpulse, MaxFall)
	g.y += g.vel * s
	if g.y < float64(g.area.Y) || g.y >= float64(g.area.Bottom()-1) {
		r.Fail()
	}
}

// Y returns the feather's height as a fractional row.
func (g *Game) Y() float64 { return g.y }

func (g *Game) Render(r *microgame.Round, dst *core.Screen) {
	dst.DrawHLine(g.area.X, g.area.Bottom()-1, g.area.W, '▔', core.ColorGreen)
	x := g.area.X + g.area.W/3
	row := int(g.y)
	glyph := '~'
	if g.vel < 0 {
		glyph = '^'
	}
	dst.SetColor(x, row, glyph, core.ColorBrightWhite)
}
