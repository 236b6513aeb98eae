// Package hop implements HOP!: a runner dashes along the ground and the
// player hops over every cactus. Clearing them all until time runs out wins.
package hop

import (
	"time"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "hop"
	Prompt   = "HOP!"
	Duration = 4 * time.Second

	// At speed 1, in columns or rows per second. Everything scales with
	// speed, so a hop always covers the same ground.
	RunSpeed    = 30.0
	JumpImpulse = 16.0
	Gravity     = 40.0

	runnerX      = 6
	runnerWidth  = 3
	runnerHeight = 3

	lead       = 30
	minSpacing = 28
	maxSpacing = 36
	minWidth   = 1
	maxWidth   = 2
	minHeight  = 1
	maxHeight  = 2
)

// Visual characters for rendering
const (
	runnerBody = '█'
	runnerHead = '◆'
	runnerLeg1 = '╱'
	runnerLeg2 = '╲'
	cactusChar = '▓'
	groundChar = '═'
)

func init() {
	registry.Register(registry.Descriptor{
		Key:         Key,
		Name:        "Cactus Hop",
		Prompt:      Prompt,
		Duration:    Duration,
		Description: "Hop over every cactus on the way.",
		Controls:    "Space or ↑",
	}, func() microgame.Microgame { return New() })
}

// Game is the HOP! microgame.
type Game struct {
	microgame.Base
	area     core.Rect
	groundY  int
	x        int
	height   float64 // above the ground, rows
	vel      float64 // upward, rows per second
	grounded bool
	cacti    []Cactus
	run      float64
	impulse  float64
	gravity  float64
	legFrame int
}

// New creates a HOP! instance.
func New() *Game {
	return &Game{}
}

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }

// WinsOnTimeout makes running the whole course a win.
func (g *Game) WinsOnTimeout() bool { return true }

func (g *Game) Setup(r *microgame.Round) {
	g.area = r.Bounds()
	g.groundY = g.area.Bottom() - 2
	g.x = g.area.X + runnerX
	g.height, g.vel = 0, 0
	g.grounded = true
	g.legFrame = 0

	gs := r.GameState()
	g.run = gs.Scale(RunSpeed)
	g.impulse = gs.Scale(JumpImpulse)
	g.gravity = gs.Scale(gs.Scale(Gravity))
	g.cacti = layCacti(r.Rand(), float64(g.x+runnerWidth), CactusCount(r.Speed()))
}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		if (ev.IsKey(core.ActionPrimary) || ev.IsKey(core.ActionUp)) && g.grounded {
			g.vel = g.impulse
			g.grounded = false
		}
	})
}

func (g *Game) Update(r *microgame.Round, dt time.Duration) {
	s := dt.Seconds()
	g.legFrame = (g.legFrame + 1) % 10

	if !g.grounded {
		g.height += g.vel * s
		g.vel -= g.gravity * s
		if g.height <= 0 {
			g.height, g.vel = 0, 0
			g.grounded = true
		}
	}

	g.cacti = scroll(g.cacti, g.run*s, g.area.X)
	if collides(g.cacti, g.runnerRect(), g.groundY) {
		r.Fail()
	}
}

// runnerRect is the runner's collision box in screen coordinates.
func (g *Game) runnerRect() core.Rect {
	return core.NewRect(g.x, g.groundY-runnerHeight-int(g.height), runnerWidth, runnerHeight)
}

// Gap returns the columns between the runner and the next cactus ahead,
// or -1 when none is left.
func (g *Game) Gap() float64 {
	for _, c := range g.cacti {
		if d := c.X - float64(g.x+runnerWidth); d >= 0 {
			return d
		}
	}
	return -1
}

// Grounded reports whether the runner can hop.
func (g *Game) Grounded() bool { return g.grounded }

// Cacti returns the cacti still on the course.
func (g *Game) Cacti() []Cactus { return g.cacti }

func (g *Game) Render(r *microgame.Round, dst *core.Screen) {
	dst.DrawHLine(g.area.X, g.groundY, g.area.W, groundChar, core.ColorGray)
	for _, c := range g.cacti {
		rect := c.Rect(g.groundY)
		dst.DrawRect(rect, cactusChar, core.ColorGreen)
	}
	g.drawRunner(dst)
}

// drawRunner draws the 3x3 runner sprite, legs tucked while airborne.
func (g *Game) drawRunner(dst *core.Screen) {
	rect := g.runnerRect()
	x, y := rect.X, rect.Y
	c := core.ColorBrightYellow

	dst.SetColor(x+1, y, runnerHead, c)
	dst.SetColor(x+2, y, runnerBody, c)
	for dx := range runnerWidth {
		dst.SetColor(x+dx, y+1, runnerBody, c)
	}

	switch {
	case !g.grounded:
		dst.SetColor(x, y+2, runnerLeg1, c)
		dst.SetColor(x+1, y+2, runnerLeg2, c)
	case g.legFrame < 5:
		dst.SetColor(x, y+2, runnerLeg1, c)
		dst.SetColor(x+2, y+2, runnerLeg2, c)
	default:
		dst.SetColor(x+1, y+2, runnerLeg1, c)
		dst.SetColor(x+2, y+2, runnerLeg2, c)
	}
}
