package audio

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Nop discards every command.
type Nop struct{}

func (Nop) Play(string, bool, float64) {}
func (Nop) Stop(string)                {}
func (Nop) Fade(string, time.Duration) {}

// LogSink reports cues to a logger instead of a sound device.
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) Play(cue string, loop bool, volume float64) {
	s.Logger.Info("play", "cue", cue, "loop", loop, "volume", volume)
}

func (s LogSink) Stop(cue string) {
	s.Logger.Info("stop", "cue", cue)
}

func (s LogSink) Fade(cue string, d time.Duration) {
	s.Logger.Info("fade", "cue", cue, "over", d)
}

// BellSink rings the terminal bell for the transition stinger and effects.
// Looping music is ignored; a terminal only has one note.
type BellSink struct {
	W io.Writer
}

func (s BellSink) Play(cue string, loop bool, _ float64) {
	if loop || s.W == nil {
		return
	}
	if cue == CueTransition || !isShort(cue) {
		_, _ = io.WriteString(s.W, "\a")
	}
}

func (BellSink) Stop(string)                {}
func (BellSink) Fade(string, time.Duration) {}

func isShort(cue string) bool {
	for _, s := range DefaultShorts {
		if s == cue {
			return true
		}
	}
	return false
}

// Tee fans commands out to several sinks.
type Tee []Sink

func (t Tee) Play(cue string, loop bool, volume float64) {
	for _, s := range t {
		s.Play(cue, loop, volume)
	}
}

func (t Tee) Stop(cue string) {
	for _, s := range t {
		s.Stop(cue)
	}
}

func (t Tee) Fade(cue string, d time.Duration) {
	for _, s := range t {
		s.Fade(cue, d)
	}
}
