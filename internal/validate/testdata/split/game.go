package split

import (
	"time"

	"github.com/vovakirdan/microware/internal/microgame"
)

// Game registers from register.go.
type Game struct{ microgame.Base }

func (g *Game) Prompt() string          { return Prompt }
func (g *Game) Duration() time.Duration { return Duration }
func (g *Game) Setup(*microgame.Round)  {}
func (g *Game) WireInput(*microgame.Round) {}
func (g *Game) WinsOnTimeout() bool     { return true }
