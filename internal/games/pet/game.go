// Package pet implements PET!: hold space to pet the dog until it is happy.
// Letting go before the meter fills loses.
//
// Terminals do not report key releases, so holding is inferred from key
// repeat: the key counts as released once no repeat arrives within
// ReleaseGrace. A real KeyUp event, when a host can deliver one, counts
// immediately.
package pet

import (
	"time"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "pet"
	Prompt   = "PET!"
	Duration = 5 * time.Second

	// HoldTime is how long the dog must be petted at speed 1.
	HoldTime = 2500 * time.Millisecond
	// ReleaseGrace covers the terminal's initial key-repeat delay.
	ReleaseGrace = 650 * time.Millisecond
)

func init() {
	registry.Register(registry.Descriptor{
		Key:         Key,
		Name:        "Pet the Dog",
		Prompt:      Prompt,
		Duration:    Duration,
		Description: "Hold space to pet the dog. Don't stop!",
		Controls:    "hold Space",
	}, func() microgame.Microgame { return New() })
}

// Game is the PET! microgame.
type Game struct {
	microgame.Base
	need      time.Duration
	petted    time.Duration
	lastPress time.Time
	holding   bool
}

// New creates a PET! instance.
func New() *Game {
	return &Game{}
}

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }

func (g *Game) Setup(r *microgame.Round) {
	// Longer holds at higher speeds, but always finishable before the timer.
	need := time.Duration(float64(HoldTime) * (1 + 0.25*(r.Speed()-1)))
	g.need = min(need, Duration-ReleaseGrace)
	g.petted = 0
	g.holding = false
}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		if ev.Action != core.ActionPrimary {
			return
		}
		switch ev.Kind {
		case core.KeyDown:
			g.holding = true
			g.lastPress = r.Now()
		case core.KeyUp:
			if g.holding {
				r.Fail()
			}
		}
	})
}

func (g *Game) Update(r *microgame.Round, dt time.Duration) {
	if !g.holding {
		return
	}
	if r.Now().Sub(g.lastPress) > ReleaseGrace {
		r.Fail()
		return
	}
	g.petted += dt
	if g.petted >= g.need {
		r.Audio().Effect("bark")
		r.Win()
	}
}

// Progress returns the happiness meter in [0, 1].
func (g *Game) Progress() float64 {
	if g.need <= 0 {
		return 1
	}
	return core.ClampF(float64(g.petted)/float64(g.need), 0, 1)
}

func (g *Game) Render(r *microgame.Round, dst *core.Screen) {
	b := r.Bounds()
	mid := b.Y + b.H/2
	dog := []string{
		`  / \__`,
		` (    @\___`,
		` /         O`,
		`/   (_____/`,
		`/_____/   U`,
	}
	if g.holding {
		dog[1] = ` (    ^\___`
	}
	for i, line := range dog {
		dst.DrawTextColor(b.X+(b.W-12)/2, mid-5+i, line, core.ColorOrange)
	}
	barW := 24
	dst.DrawBar(b.X+(b.W-barW)/2, mid+2, barW, g.Progress(), core.ColorBrightMagenta)
	if !g.holding {
		dst.DrawTextCentered(mid+4, "hold SPACE", core.ColorGray)
	}
}
