package core

// RuntimeConfig describes the host environment a run is played in.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Scheduler polls per second
	Seed     int64 // RNG seed; 0 means seed from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is the progression state of one run. The orchestrator owns it;
// microgames only ever see a copy.
type GameState struct {
	Lives          int
	Score          int
	Speed          float64 // difficulty multiplier, 1.0 at the start of a run
	GamesCompleted int
	DebugMode      bool
}

// NewGameState returns the state a fresh run starts with.
func NewGameState(lives int, speed float64) GameState {
	return GameState{Lives: lives, Speed: speed}
}

// Alive reports whether the run can continue.
func (g GameState) Alive() bool {
	return g.Lives > 0
}

// Scale multiplies a base quantity by the current speed.
func (g GameState) Scale(base float64) float64 {
	if g.Speed <= 0 {
		return base
	}
	return base * g.Speed
}
