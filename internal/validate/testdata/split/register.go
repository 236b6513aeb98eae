package split

import (
	"time"

	"github.com/vovakirdan/microware/internal/microgame"
	"github.com/vovakirdan/microware/internal/registry"
)

const (
	Key      = "hold"
	Prompt   = "HOLD " + "ON!"
	Duration = time.Duration(4e9)
)

func init() {
	registry.Register(registry.Descriptor{Key: Key, Prompt: Prompt, Duration: Duration},
		func() microgame.Microgame { return &Game{} })
}
