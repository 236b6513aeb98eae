package config

import "fmt"

// Preset is a named difficulty level.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
)

// Presets lists the known presets in display order.
var Presets = []Preset{PresetEasy, PresetNormal, PresetHard}

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(name string) (Preset, error) {
	switch p := Preset(name); p {
	case "":
		return PresetNormal, nil
	case PresetEasy, PresetNormal, PresetHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", name)
	}
}

// Apply adjusts the run section for the preset. Normal leaves it untouched.
// Presets change lives and the starting speed only, never the ramp.
func (p Preset) Apply(cfg *Config) {
	switch p {
	case PresetEasy:
		cfg.Run.InitialLives = 5
	case PresetHard:
		cfg.Run.InitialLives = 3
		cfg.Run.InitialSpeed = 1.4
		if cfg.Run.MaxSpeed < cfg.Run.InitialSpeed {
			cfg.Run.MaxSpeed = cfg.Run.InitialSpeed
		}
	}
}
