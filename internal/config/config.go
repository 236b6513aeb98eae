// Package config loads run configuration for microware: lives, scoring and
// the speed curve, transition timings, the registry duration band and audio.
// Values come from YAML with environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the complete run configuration.
type Config struct {
	Run        RunConfig        `yaml:"run"`
	Transition TransitionConfig `yaml:"transition"`
	Registry   RegistryConfig   `yaml:"registry"`
	Audio      AudioConfig      `yaml:"audio"`
}

// RunConfig controls progression: lives, score and the speed curve.
type RunConfig struct {
	InitialLives int     `yaml:"initial_lives" env:"MICROWARE_LIVES"`
	WinReward    int     `yaml:"win_reward" env:"MICROWARE_WIN_REWARD"`
	InitialSpeed float64 `yaml:"initial_speed" env:"MICROWARE_INITIAL_SPEED"`
	SpeedStep    float64 `yaml:"speed_step" env:"MICROWARE_SPEED_STEP"`
	SpeedEvery   int     `yaml:"speed_every" env:"MICROWARE_SPEED_EVERY"` // completed rounds per step
	MaxSpeed     float64 `yaml:"max_speed" env:"MICROWARE_MAX_SPEED"`
}

// TransitionConfig holds the timing of the between-rounds drama.
// Offsets are measured from the start of the transition.
type TransitionConfig struct {
	CountdownFrom  int           `yaml:"countdown_from" env:"MICROWARE_COUNTDOWN_FROM"`
	CountdownStart time.Duration `yaml:"countdown_start" env:"MICROWARE_COUNTDOWN_START"`
	CountdownStep  time.Duration `yaml:"countdown_step" env:"MICROWARE_COUNTDOWN_STEP"`
	LifeLostDelay  time.Duration `yaml:"life_lost_delay"`
	PromptDelay    time.Duration `yaml:"prompt_delay"`
	Flash          time.Duration `yaml:"flash"`
	ResultBeat     time.Duration `yaml:"result_beat" env:"MICROWARE_RESULT_BEAT"`
}

// RegistryConfig bounds the round durations the catalog considers sane.
type RegistryConfig struct {
	MinDuration time.Duration `yaml:"min_duration"`
	MaxDuration time.Duration `yaml:"max_duration"`
}

// AudioConfig selects cue names and volume.
type AudioConfig struct {
	Volume float64  `yaml:"volume" env:"MICROWARE_VOLUME"`
	Shorts []string `yaml:"shorts" env:"MICROWARE_SHORTS" envSeparator:","`
}

// The speed ramp is fixed: every step is SpeedIncrement and no run goes
// past SpeedCeiling.
const (
	SpeedIncrement = 0.2
	SpeedCeiling   = 3.0
)

// GoAt returns the offset at which the countdown finishes and the flash
// starts: one step after the last number.
func (t TransitionConfig) GoAt() time.Duration {
	return t.CountdownStart + time.Duration(t.CountdownFrom)*t.CountdownStep
}

// Validate rejects configurations a run cannot be played with.
func (c Config) Validate() error {
	var errs []error
	if c.Run.InitialLives < 1 {
		errs = append(errs, fmt.Errorf("run.initial_lives must be at least 1, got %d", c.Run.InitialLives))
	}
	if c.Run.WinReward < 0 {
		errs = append(errs, fmt.Errorf("run.win_reward must not be negative, got %d", c.Run.WinReward))
	}
	if c.Run.MaxSpeed > SpeedCeiling {
		errs = append(errs, fmt.Errorf("run.max_speed must not exceed %.1f, got %.2f", SpeedCeiling, c.Run.MaxSpeed))
	}
	if c.Run.InitialSpeed < 1 || c.Run.InitialSpeed > c.Run.MaxSpeed {
		errs = append(errs, fmt.Errorf("run speeds must satisfy 1 <= initial_speed <= max_speed, got %.2f and %.2f",
			c.Run.InitialSpeed, c.Run.MaxSpeed))
	}
	if c.Run.SpeedEvery < 1 {
		errs = append(errs, fmt.Errorf("run.speed_every must be positive, got %d", c.Run.SpeedEvery))
	}
	if c.Run.SpeedStep != SpeedIncrement {
		errs = append(errs, fmt.Errorf("run.speed_step must be %.1f, got %.2f", SpeedIncrement, c.Run.SpeedStep))
	}
	if c.Transition.CountdownFrom < 0 {
		errs = append(errs, fmt.Errorf("transition.countdown_from must not be negative, got %d", c.Transition.CountdownFrom))
	}
	if c.Registry.MinDuration > c.Registry.MaxDuration {
		errs = append(errs, fmt.Errorf("registry band is inverted: %v > %v", c.Registry.MinDuration, c.Registry.MaxDuration))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
