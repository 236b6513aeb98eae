package good

import (
	"time"

	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	prompt   = "JUMP!"
	duration = 3*time.Second + 500*time.Millisecond
)

func init() {
	registry.Register(registry.Descriptor{
		Key:      "jump",
		Prompt:   prompt,
		Duration: duration,
	}, func() microgame.Microgame { return &Game{} })
}

type Game struct {
	microgame.Base
}

func (g *Game) Prompt() string          { return prompt }
func (g *Game) Duration() time.Duration { return duration }

func (g *Game) Setup(r *microgame.Round) {}

func (g *Game) WireInput(r *microgame.Round) {
	r.OnInput(func(ev core.Event) {
		g.jump(r)
	})
}

func (g *Game) jump(r *microgame.Round) {
	r.Win()
}
