// Package typer implements TYPE!: type the word on screen before time is
// up. Backspace fixes mistakes.
package typer

import (
	"time"
	"unicode"

	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "type"
	Prompt   = "TYPE!"
	Duration = 3 * time.Second
)

// Words are grouped by length; faster runs draw longer words.
var Words = [][]string{
	{"cat", "dog", "sun", "egg", "hop", "zap"},
	{"duck", "frog", "jump", "fizz", "wave", "bolt"},
	{"quick", "pixel", "sneak", "blink", "vroom"},
}

func init() {
	registry.Register(registry.Descriptor{
		Key:         Key,
		Name:        "Speed Typist",
		Prompt:      Prompt,
		Duration:    Duration,
		Description: "Type the word exactly.",
		Controls:    "keyboard, backspace",
	}, func() microgame.Microgame { return New() })
}

// Game is the TYPE! microgame.
type Game struct {
	microgame.Base
	word  string
	typed []rune
}

// New creates a TYPE! instance.
func New() *Game {
	return &Game{}
}

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }

func (g *Game) Setup(r *microgame.Round) {
	tier := core.Clamp(int((r.Speed()-1)/0.6+0.5), 0, len(Words)-1)
	pool := Words[tier]
	g.word = pool[r.Rand().Intn(len(pool))]
	g.typed = g.typed[:0]
}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		if ev.Kind != core.KeyDown {
			return
		}
		if ev.Action == core.ActionBackspace {
			if len(g.typed) > 0 {
				g.typed = g.typed[:len(g.typed)-1]
			}
			return
		}
		if !unicode.IsLetter(ev.Rune) || len(g.typed) >= len(g.word) {
			return
		}
		g.typed = append(g.typed, unicode.ToLower(ev.Rune))
		if string(g.typed) == g.word {
			r.Win()
		}
	})
}

// Word returns the target word.
func (g *Game) Word() string { return g.word }

// Typed returns what the player has typed so far.
func (g *Game) Typed() string { return string(g.typed) }

func (g *Game) Render(r *microgame.Round, dst *core.Screen) {
	b := r.Bounds()
	mid := b.Y + b.H/2
	dst.DrawTextCentered(mid-2, g.word, core.ColorBrightWhite)

	x := b.X + (b.W-len(g.word))/2
	target := []rune(g.word)
	for i := range target {
		ch, color := '_', core.ColorGray
		if i < len(g.typed) {
			ch = g.typed[i]
			color = core.ColorBrightGreen
			if g.typed[i] != target[i] {
				color = core.ColorBrightRed
			}
		}
		dst.SetColor(x+i, mid, ch, color)
	}
}
