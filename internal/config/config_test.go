package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(defaultYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded defaults = %+v\nhard-coded = %+v", cfg, Default())
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() invalid: %v", err)
	}
}

func TestEmbeddedDefaultsNameTheLoadedFile(t *testing.T) {
	if !strings.Contains(string(defaultYAML), filepath.Join("~/.microware", FileName)) {
		t.Errorf("embedded defaults should point users at ~/.microware/%s", FileName)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Run.InitialLives != 4 || cfg.Transition.PromptDelay != 800*time.Millisecond {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".microware")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("run:\n  win_reward: 250\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Run.WinReward != 250 {
		t.Errorf("WinReward = %d, expected 250 from user config", cfg.Run.WinReward)
	}
}

func TestLoadCustomPathPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "run:\n  initial_lives: 2\ntransition:\n  countdown_step: 750ms\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Run.InitialLives != 2 {
		t.Errorf("InitialLives = %d, expected 2", cfg.Run.InitialLives)
	}
	if cfg.Transition.CountdownStep != 750*time.Millisecond {
		t.Errorf("CountdownStep = %v, expected 750ms", cfg.Transition.CountdownStep)
	}
	if cfg.Run.MaxSpeed != 3.0 {
		t.Errorf("unnamed fields should keep defaults, MaxSpeed = %v", cfg.Run.MaxSpeed)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("run: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("run:\n  initial_lives: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing", filepath.Join(dir, "nope.yaml"), "cannot read"},
		{"malformed", bad, "cannot parse"},
		{"invalid", invalid, "initial_lives"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Load() error = %v, expected mention of %q", err, tc.want)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MICROWARE_LIVES", "7")
	t.Setenv("MICROWARE_RESULT_BEAT", "1s")
	t.Setenv("MICROWARE_SHORTS", "a,b")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Run.InitialLives != 7 {
		t.Errorf("InitialLives = %d, expected 7", cfg.Run.InitialLives)
	}
	if cfg.Transition.ResultBeat != time.Second {
		t.Errorf("ResultBeat = %v, expected 1s", cfg.Transition.ResultBeat)
	}
	if !reflect.DeepEqual(cfg.Audio.Shorts, []string{"a", "b"}) {
		t.Errorf("Shorts = %v", cfg.Audio.Shorts)
	}
}

func TestEnvParseError(t *testing.T) {
	t.Setenv("MICROWARE_LIVES", "many")
	cfg := Default()
	err := ParseEnv(&cfg)
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("ParseEnv() = %v, expected a parse env error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative reward", func(c *Config) { c.Run.WinReward = -1 }, "win_reward"},
		{"speed above max", func(c *Config) { c.Run.InitialSpeed = 4 }, "initial_speed"},
		{"speed below one", func(c *Config) { c.Run.InitialSpeed = 0.5 }, "initial_speed"},
		{"zero interval", func(c *Config) { c.Run.SpeedEvery = 0 }, "speed_every"},
		{"inverted band", func(c *Config) { c.Registry.MinDuration = time.Minute }, "inverted"},
		{"max above ceiling", func(c *Config) { c.Run.MaxSpeed = 5 }, "max_speed"},
		{"slower step", func(c *Config) { c.Run.SpeedStep = 0.1 }, "speed_step"},
		{"negative step", func(c *Config) { c.Run.SpeedStep = -0.2 }, "speed_step"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %v, expected mention of %q", err, tc.want)
			}
		})
	}
}

func TestGoAt(t *testing.T) {
	if got := Default().Transition.GoAt(); got != 3500*time.Millisecond {
		t.Errorf("GoAt() = %v, expected 3.5s", got)
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name      string
		lives     int
		speed     float64
		expectErr bool
	}{
		{"", 4, 1.0, false},
		{"easy", 5, 1.0, false},
		{"normal", 4, 1.0, false},
		{"hard", 3, 1.4, false},
		{"nightmare", 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParsePreset(tc.name)
			if tc.expectErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			cfg := Default()
			p.Apply(&cfg)
			if cfg.Run.InitialLives != tc.lives || cfg.Run.InitialSpeed != tc.speed {
				t.Errorf("%s: lives=%d speed=%v", p, cfg.Run.InitialLives, cfg.Run.InitialSpeed)
			}
			if cfg.Run.SpeedStep != SpeedIncrement || cfg.Run.MaxSpeed != SpeedCeiling {
				t.Errorf("%s changed the ramp: step=%v max=%v", p, cfg.Run.SpeedStep, cfg.Run.MaxSpeed)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s produced invalid config: %v", p, err)
			}
		})
	}
}
