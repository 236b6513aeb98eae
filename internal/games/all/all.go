// Package all registers every built-in microgame with registry.Default.
// Import it for side effects.
package all

import (
	_ "github.com/vovakirdan/microware/internal/games/block"
	_ "github.com/vovakirdan/microware/internal/games/bounce"
	_ "github.com/vovakirdan/microware/internal/games/catch"
	_ "github.com/vovakirdan/microware/internal/games/click"
	_ "github.com/vovakirdan/microware/internal/games/dodge"
	_ "github.com/vovakirdan/microware/internal/games/eat"
	_ "github.com/vovakirdan/microware/internal/games/flap"
	_ "github.com/vovakirdan/microware/internal/games/hop"
	_ "github.com/vovakirdan/microware/internal/games/pet"
	_ "github.com/vovakirdan/microware/internal/games/sneeze"
	_ "github.com/vovakirdan/microware/internal/games/typer"
)
