package mismatch

import (
	"time"

	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

func init() {
	registry.Register(registry.Descriptor{
		Key:      "go",
		Prompt:   "GO!",
		Duration: 4 * time.Second,
	}, func() microgame.Microgame { return &Game{} })
}

type Game struct{ microgame.Base }

func (g *Game) Prompt() string             { return "GO!" }
func (g *Game) Duration() time.Duration    { return 3000 * time.Millisecond }
func (g *Game) Setup(*microgame.Round)     {}
func (g *Game) WireInput(r *microgame.Round) { r.Win() }
