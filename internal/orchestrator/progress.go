package orchestrator

import (
	"math"

	"github.com/vovakirdan/microware/internal/config"
	"github.com/vovakirdan/microware/internal/core"
)

// applyResult folds one round outcome into the run state. It is the only
// place GameState changes during a run.
//
// A win adds the reward and, on every SpeedEvery-th completed round, raises
// speed by SpeedStep up to MaxSpeed, never past config.SpeedCeiling. A loss
// costs a life. Both count as a completed round.
func applyResult(gs *core.GameState, won bool, rc config.RunConfig) {
	gs.GamesCompleted++
	if !won {
		if gs.Lives > 0 {
			gs.Lives--
		}
		return
	}

	gs.Score += rc.WinReward
	if rc.SpeedEvery > 0 && gs.GamesCompleted%rc.SpeedEvery == 0 {
		// Round to hundredths so repeated 0.2 steps stay exact.
		next := math.Round((gs.Speed+rc.SpeedStep)*100) / 100
		gs.Speed = math.Min(next, math.Min(rc.MaxSpeed, config.SpeedCeiling))
	}
}
