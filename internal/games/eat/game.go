// Package eat implements EAT!: steer a snake to the apple before time runs
// out. Hitting the fence or the snake's own body loses.
package eat

import (
	"time"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "eat"
	Prompt   = "EAT!"
	Duration = 5 * time.Second

	// Field size, capped by the play area.
	FieldW = 24
	FieldH = 10

	startLength = 5
	baseStep    = 120 * time.Millisecond
	minStep     = 40 * time.Millisecond
)

func init() {
	registry.Register(registry.Descriptor{
		Key:         Key,
		Name:        "Snack Snake",
		Prompt:      Prompt,
		Duration:    Duration,
		Description: "Guide the snake to the apple. Mind the fence and your tail.",
		Controls:    "Arrows",
	}, func() microgame.Microgame { return New() })
}

// Direction is the snake's heading.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Opposite reports whether d and o point in opposite directions.
func (d Direction) Opposite(o Direction) bool {
	return (d+2)%4 == o
}

// Point is a cell in screen coordinates.
type Point struct {
	X, Y int
}

func (p Point) step(d Direction) Point {
	switch d {
	case DirUp:
		p.Y--
	case DirDown:
		p.Y++
	case DirLeft:
		p.X--
	case DirRight:
		p.X++
	}
	return p
}

// StepInterval is the time between moves at the given speed.
func StepInterval(speed float64) time.Duration {
	return max(time.Duration(float64(baseStep)/max(speed, 1)), minStep)
}

// Game is the EAT! microgame.
type Game struct {
	microgame.Base
	field   core.Rect
	snake   []Point // head first
	dir     Direction
	nextDir Direction
	apple   Point
}

// New creates an EAT! instance.
func New() *Game {
	return &Game{}
}

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }

func (g *Game) Setup(r *microgame.Round) {
	area := r.Bounds()
	w := min(FieldW, area.W-2)
	h := min(FieldH, area.H-4)
	g.field = core.NewRect(area.X+(area.W-w)/2, area.Y+(area.H-h)/2, w, h)

	row := g.field.Y + g.field.H/2
	g.snake = g.snake[:0]
	for i := range startLength {
		g.snake = append(g.snake, Point{X: g.field.X + startLength - 1 - i, Y: row})
	}
	g.dir, g.nextDir = DirRight, DirRight
	g.spawnApple(r)

	r.Every(StepInterval(r.Speed()), func() { g.move(r) })
}

// spawnApple places the apple on a random free cell of the field.
func (g *Game) spawnApple(r *microgame.Round) {
	var free []Point
	for y := g.field.Y; y < g.field.Bottom(); y++ {
		for x := g.field.X; x < g.field.Right(); x++ {
			if p := (Point{X: x, Y: y}); !g.occupied(p, len(g.snake)) {
				free = append(free, p)
			}
		}
	}
	if len(free) > 0 {
		g.apple = free[r.Rand().Intn(len(free))]
	}
}

// occupied reports whether one of the first n segments sits on p.
func (g *Game) occupied(p Point, n int) bool {
	for _, seg := range g.snake[:n] {
		if seg == p {
			return true
		}
	}
	return false
}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		d := g.nextDir
		switch {
		case ev.IsKey(core.ActionUp):
			d = DirUp
		case ev.IsKey(core.ActionDown):
			d = DirDown
		case ev.IsKey(core.ActionLeft):
			d = DirLeft
		case ev.IsKey(core.ActionRight):
			d = DirRight
		}
		// No instant reversal
		if !d.Opposite(g.dir) {
			g.nextDir = d
		}
	})
}

// move advances the snake one cell.
func (g *Game) move(r *microgame.Round) {
	g.dir = g.nextDir
	head := g.snake[0].step(g.dir)

	// The tail moves out of the way in the same step.
	if !g.field.Contains(head.X, head.Y) || g.occupied(head, len(g.snake)-1) {
		r.Fail()
		return
	}

	copy(g.snake[1:], g.snake[:len(g.snake)-1])
	g.snake[0] = head

	if head == g.apple {
		r.Audio().Effect("chomp")
		r.Win()
	}
}

// Head returns the snake's head cell.
func (g *Game) Head() Point { return g.snake[0] }

// Apple returns the apple's cell.
func (g *Game) Apple() Point { return g.apple }

// Heading returns the direction of the last move.
func (g *Game) Heading() Direction { return g.dir }

// PlaceApple moves the apple to p. Used by tests.
func (g *Game) PlaceApple(p Point) { g.apple = p }

// Field returns the cells the snake may move in.
func (g *Game) Field() core.Rect { return g.field }

func (g *Game) Render(r *microgame.Round, dst *core.Screen) {
	f := g.field
	dst.DrawBox(core.NewRect(f.X-1, f.Y-1, f.W+2, f.H+2), core.ColorGray)
	dst.SetColor(g.apple.X, g.apple.Y, '●', core.ColorRed)
	for i, seg := range g.snake {
		if i == 0 {
			dst.SetColor(seg.X, seg.Y, 'O', core.ColorBrightGreen)
		} else {
			dst.SetColor(seg.X, seg.Y, 'o', core.ColorGreen)
		}
	}
}
