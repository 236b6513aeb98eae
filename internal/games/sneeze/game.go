// Package sneeze implements SNEEZE!: mash S to build up a sneeze before
// the timer runs out.
package sneeze

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "sneeze"
	Prompt   = "SNEEZE!"
	Duration = 3 * time.Second
	Presses  = 10
)

func init() {
	registry.Register(registry.Descriptor{
		Key:         Key,
		Name:        "Big Sneeze",
		Prompt:      Prompt,
		Duration:    Duration,
		Description: fmt.Sprintf("Press S %d times to sneeze.", Presses),
		Controls:    "S",
	}, func() microgame.Microgame { return New() })
}

// Game is the SNEEZE! microgame.
type Game struct {
	microgame.Base
	presses int
}

// New creates a SNEEZE! instance.
func New() *Game {
	return &Game{}
}

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }

func (g *Game) Setup(*microgame.Round) {
	g.presses = 0
}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		if ev.Kind != core.KeyDown || (ev.Rune != 's' && ev.Rune != 'S') {
			return
		}
		g.presses++
		if g.presses >= Presses {
			r.Audio().Effect("achoo")
			r.Win()
		}
	})
}

func (g *Game) Render(r *microgame.Round, dst *core.Screen) {
	b := r.Bounds()
	mid := b.Y + b.H/2
	face := "(-_-)"
	switch {
	case g.presses >= Presses:
		face = "(>O<)"
	case g.presses > Presses/2:
		face = "(>_<)"
	case g.presses > 0:
		face = "(o_o)"
	}
	dst.DrawTextCentered(mid-2, face, core.ColorBrightWhite)
	dst.DrawTextCentered(mid, "A"+strings.Repeat("a", g.presses)+"h...", core.ColorYellow)
	barW := 20
	dst.DrawBar(b.X+(b.W-barW)/2, mid+2, barW, float64(g.presses)/Presses, core.ColorBrightCyan)
	dst.DrawTextCentered(mid+4, "mash S", core.ColorGray)
}
