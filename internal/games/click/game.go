// Package click implements CLICK!: hit the target with the mouse, or steer
// the cursor with the arrow keys and press space. Clicking outside the
// target loses.
package click

import (
	"time"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "click"
	Prompt   = "CLICK!"
	Duration = 4 * time.Second
)

func init() {
	registry.Register(registry.Descriptor{
		Key:         Key,
		Name:        "Target Click",
		Prompt:      Prompt,
		Duration:    Duration,
		Description: "Click the target. Missing it loses.",
		Controls:    "mouse, or arrows + space",
	}, func() microgame.Microgame { return New() })
}

// TargetSize returns the target's width and height at the given speed.
// Targets shrink as the run speeds up.
func TargetSize(speed float64) (int, int) {
	w := core.Clamp(int(10/speed), 3, 10)
	h := core.Clamp(int(5/speed), 1, 5)
	return w, h
}

// Game is the CLICK! microgame.
type Game struct {
	microgame.Base
	area   core.Rect
	target core.Rect
	cx, cy int
}

// New creates a CLICK! instance.
func New() *Game {
	return &Game{}
}

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }

func (g *Game) Setup(r *microgame.Round) {
	g.area = r.Bounds()
	w, h := TargetSize(r.Speed())
	g.target = core.NewRect(
		g.area.X+r.Rand().Intn(max(g.area.W-w, 1)),
		g.area.Y+r.Rand().Intn(max(g.area.H-h, 1)),
		w, h,
	)
	g.cx, g.cy = g.area.Center()
}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		switch ev.Kind {
		case core.PointerMove:
			g.moveCursor(ev.X, ev.Y)
		case core.PointerDown:
			g.moveCursor(ev.X, ev.Y)
			g.click(r)
		case core.KeyDown:
			switch ev.Action {
			case core.ActionLeft:
				g.moveCursor(g.cx-2, g.cy)
			case core.ActionRight:
				g.moveCursor(g.cx+2, g.cy)
			case core.ActionUp:
				g.moveCursor(g.cx, g.cy-1)
			case core.ActionDown:
				g.moveCursor(g.cx, g.cy+1)
			case core.ActionPrimary, core.ActionConfirm:
				g.click(r)
			}
		}
	})
}

func (g *Game) moveCursor(x, y int) {
	g.cx = core.Clamp(x, g.area.X, g.area.Right()-1)
	g.cy = core.Clamp(y, g.area.Y, g.area.Bottom()-1)
}

func (g *Game) click(r *microgame.Round) {
	if g.target.Contains(g.cx, g.cy) {
		r.Win()
	} else {
		r.Fail()
	}
}

// Target returns the target rectangle.
func (g *Game) Target() core.Rect { return g.target }

// Cursor returns the cursor cell.
func (g *Game) Cursor() (int, int) { return g.cx, g.cy }

func (g *Game) Render(r *microgame.Round, dst *core.Screen) {
	dst.DrawRect(g.target, '▓', core.ColorBrightRed)
	tx, ty := g.target.Center()
	dst.SetColor(tx, ty, '◎', core.ColorBrightWhite)
	dst.SetColor(g.cx, g.cy, '+', core.ColorBrightCyan)
}
