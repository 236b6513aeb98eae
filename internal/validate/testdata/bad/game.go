package bad

import (
	"time"

	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

func init() {
	registry.Register(registry.Descriptor{
		Key:      "wait",
		Prompt:   "WAIT FOR IT!",
		Duration: 9 * time.Second,
	}, func() microgame.Microgame { return &Waiter{} })

	registry.Register(registry.Descriptor{
		Key:    "ghost",
		Prompt: "BOO!",
	}, nil)
}

// Waiter has a long prompt, an out-of-band duration that disagrees with its
// descriptor, no way to resolve and an empty Teardown.
type Waiter struct{}

func (w *Waiter) Prompt() string          { return "wait for it, really" }
func (w *Waiter) Duration() time.Duration { return 10 * time.Second }
func (w *Waiter) Setup(r *microgame.Round) {}
func (w *Waiter) Update(r *microgame.Round, dt time.Duration) {}
func (w *Waiter) Render(r *microgame.Round, dst *core.Screen) {}
func (w *Waiter) Teardown(r *microgame.Round)                 {}

// Silent is never registered and has no literal prompt.
type Silent struct{ microgame.Base }

func (s *Silent) Prompt() string              { return strings.ToUpper("shh") }
func (s *Silent) Duration() time.Duration     { return 0 }
func (s *Silent) Setup(r *microgame.Round)    {}
func (s *Silent) WireInput(r *microgame.Round) { r.Fail() }
