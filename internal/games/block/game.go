// Package block implements BLOCK!: a face is about to sneeze and the player
// holds a tissue over its nose. The sneeze lands a little before time runs
// out; a covered nose wins.
package block

import (
	"time"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "block"
	Prompt   = "BLOCK!"
	Duration = 4 * time.Second

	// SneezeAt is when the sneeze lands at speed 1.
	SneezeAt = 3 * time.Second

	TissueW = 8
	TissueH = 3
)

func init() {
	registry.Register(registry.Descriptor{
		Key:         Key,
		Name:        "Sneeze Shield",
		Prompt:      Prompt,
		Duration:    Duration,
		Description: "Cover the nose with the tissue before the sneeze.",
		Controls:    "mouse or arrows",
	}, func() microgame.Microgame { return New() })
}

// SneezeDelay is when the sneeze lands at the given speed.
func SneezeDelay(speed float64) time.Duration {
	return max(time.Duration(float64(SneezeAt)/max(speed, 1)), time.Second)
}

// Game is the BLOCK! microgame.
type Game struct {
	microgame.Base
	area       core.Rect
	noseX      int
	noseY      int
	tx, ty     int // tissue center
	twitch     bool
	sneezeDone bool
}

// New creates a BLOCK! instance.
func New() *Game {
	return &Game{}
}

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }

func (g *Game) Setup(r *microgame.Round) {
	g.area = r.Bounds()
	g.noseX, g.noseY = g.area.Center()
	g.moveTissue(g.noseX, g.noseY+6)
	g.twitch = false
	g.sneezeDone = false

	r.Every(100*time.Millisecond, func() { g.twitch = !g.twitch })
	r.After(SneezeDelay(r.Speed()), func() { g.sneeze(r) })
}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		switch {
		case ev.Kind == core.PointerMove:
			g.moveTissue(ev.X, ev.Y)
		case ev.IsKey(core.ActionLeft):
			g.moveTissue(g.tx-2, g.ty)
		case ev.IsKey(core.ActionRight):
			g.moveTissue(g.tx+2, g.ty)
		case ev.IsKey(core.ActionUp):
			g.moveTissue(g.tx, g.ty-1)
		case ev.IsKey(core.ActionDown):
			g.moveTissue(g.tx, g.ty+1)
		}
	})
}

func (g *Game) moveTissue(x, y int) {
	a := g.area
	g.tx = core.Clamp(x, a.X+TissueW/2, a.Right()-TissueW+TissueW/2)
	g.ty = core.Clamp(y, a.Y+TissueH/2, a.Bottom()-TissueH+TissueH/2)
}

func (g *Game) tissue() core.Rect {
	return core.NewRect(g.tx-TissueW/2, g.ty-TissueH/2, TissueW, TissueH)
}

// Covered reports whether the tissue is over the nose.
func (g *Game) Covered() bool {
	return g.tissue().Contains(g.noseX, g.noseY)
}

func (g *Game) sneeze(r *microgame.Round) {
	g.sneezeDone = true
	r.Audio().Effect("achoo")
	if g.Covered() {
		r.Win()
	} else {
		r.Fail()
	}
}

// Nose returns the nose cell.
func (g *Game) Nose() (int, int) { return g.noseX, g.noseY }

func (g *Game) Render(r *microgame.Round, dst *core.Screen) {
	x, y := g.noseX, g.noseY
	if g.twitch && !g.sneezeDone {
		x++
	}
	dst.DrawBox(core.NewRect(x-5, y-3, 11, 7), core.ColorYellow)
	dst.SetColor(x-2, y-1, 'o', core.ColorWhite)
	dst.SetColor(x+2, y-1, 'o', core.ColorWhite)
	dst.SetColor(x, y, 'U', core.ColorBrightRed)
	dst.DrawTextColor(x-1, y+2, "~~~", core.ColorRed)

	dst.DrawRect(g.tissue(), '░', core.ColorBrightWhite)
	if g.sneezeDone && !g.Covered() {
		dst.DrawTextColor(x-3, y+4, "SPLAT!", core.ColorBrightBlue)
	}
}
