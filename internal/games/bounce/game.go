// Package bounce implements BOUNCE!: a ball flies at the player's paddle
// and returning it wins. Letting it past loses.
package bounce

import (
	"math"
	"time"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "bounce"
	Prompt   = "BOUNCE!"
	Duration = 4 * time.Second

	// Columns per second at speed 1.
	BallSpeed = 30.0

	paddleX    = 2 // columns from the left edge
	paddleStep = 2
	maxAngle   = 0.6
)

// Visual characters for rendering
const (
	paddleChar = '█'
	ballChar   = '●'
	netChar    = '│'
)

func init() {
	registry.Register(registry.Descriptor{
		Key:         Key,
		Name:        "Paddle Bounce",
		Prompt:      Prompt,
		Duration:    Duration,
		Description: "Get your paddle behind the ball and send it back.",
		Controls:    "↑/↓ or mouse",
	}, func() microgame.Microgame { return New() })
}

// PaddleHeight is the paddle size for a play area h rows tall.
func PaddleHeight(h int) int {
	return core.Clamp(h/5, 3, 7)
}

// Game is the BOUNCE! microgame.
type Game struct {
	microgame.Base
	area    core.Rect
	paddleY int
	height  int
	ball    core.Vec
	vel     core.Vec
}

// New creates a BOUNCE! instance.
func New() *Game {
	return &Game{}
}

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }

func (g *Game) Setup(r *microgame.Round) {
	g.area = r.Bounds()
	g.height = PaddleHeight(g.area.H)
	g.movePaddle(g.area.Y + (g.area.H-g.height)/2)

	x := float64(g.area.X + g.area.W*3/4)
	y := float64(g.area.Y+1) + r.Rand().Float64()*float64(g.area.H-3)
	speed := r.GameState().Scale(BallSpeed)
	angle := (r.Rand().Float64() - 0.5) * maxAngle
	g.Serve(x, y, -speed, speed*angle)
}

// Serve puts the ball at (x, y) with velocity (vx, vy) in cells per second.
func (g *Game) Serve(x, y, vx, vy float64) {
	g.ball = core.Vec{X: x, Y: y}
	g.vel = core.Vec{X: vx, Y: vy}
}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		switch {
		case ev.IsKey(core.ActionUp):
			g.movePaddle(g.paddleY - paddleStep)
		case ev.IsKey(core.ActionDown):
			g.movePaddle(g.paddleY + paddleStep)
		case ev.Kind == core.PointerMove:
			g.movePaddle(ev.Y - g.height/2)
		}
	})
}

func (g *Game) movePaddle(y int) {
	g.paddleY = core.Clamp(y, g.area.Y, g.area.Bottom()-g.height)
}

func (g *Game) Update(r *microgame.Round, dt time.Duration) {
	g.ball = g.ball.Add(g.vel.Scale(dt.Seconds()))

	top, bottom := float64(g.area.Y), float64(g.area.Bottom()-1)
	if g.ball.Y <= top {
		g.ball.Y = top
		g.vel.Y = math.Abs(g.vel.Y)
	}
	if g.ball.Y >= bottom {
		g.ball.Y = bottom
		g.vel.Y = -math.Abs(g.vel.Y)
	}
	if right := float64(g.area.Right() - 1); g.ball.X >= right {
		g.ball.X = right
		g.vel.X = -math.Abs(g.vel.X)
	}

	px := float64(g.area.X + paddleX)
	if g.vel.X < 0 && g.ball.X <= px+1 && g.ball.X >= px-1 {
		if _, y := g.ball.Cell(); y >= g.paddleY && y < g.paddleY+g.height {
			g.ball.X = px + 1
			g.vel.X = -g.vel.X
			r.Audio().Effect("pong")
			r.Win()
			return
		}
	}
	if g.ball.X < float64(g.area.X) {
		r.Fail()
	}
}

// Ball returns the ball position.
func (g *Game) Ball() core.Vec { return g.ball }

// Paddle returns the paddle's top row and height.
func (g *Game) Paddle() (int, int) { return g.paddleY, g.height }

func (g *Game) Render(r *microgame.Round, dst *core.Screen) {
	cx := g.area.X + g.area.W/2
	for y := g.area.Y; y < g.area.Bottom(); y += 2 {
		dst.SetColor(cx, y, netChar, core.ColorGray)
	}
	dst.DrawVLine(g.area.X+paddleX, g.paddleY, g.height, paddleChar, core.ColorBrightCyan)
	x, y := g.ball.Cell()
	dst.SetColor(x, y, ballChar, core.ColorBrightWhite)
}
