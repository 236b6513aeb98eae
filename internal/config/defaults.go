package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/microware.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration, identical to the embedded
// defaults/microware.yaml.
func Default() Config {
	return Config{
		Run: RunConfig{
			InitialLives: 4,
			WinReward:    100,
			InitialSpeed: 1.0,
			SpeedStep:    0.2,
			SpeedEvery:   5,
			MaxSpeed:     3.0,
		},
		Transition: TransitionConfig{
			CountdownFrom:  3,
			CountdownStart: 500 * time.Millisecond,
			CountdownStep:  time.Second,
			LifeLostDelay:  300 * time.Millisecond,
			PromptDelay:    800 * time.Millisecond,
			Flash:          400 * time.Millisecond,
			ResultBeat:     500 * time.Millisecond,
		},
		Registry: RegistryConfig{
			MinDuration: 2 * time.Second,
			MaxDuration: 7 * time.Second,
		},
		Audio: AudioConfig{
			Volume: 0.5,
			Shorts: []string{"short1", "short2", "short3", "short4", "short5", "short6", "short7"},
		},
	}
}
