package orchestrator

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/microware/internal/core"
)

// Render draws the current phase into dst.
func (o *Orchestrator) Render(dst *core.Screen) {
	dst.Clear()
	switch o.phase {
	case Idle:
		o.renderTitle(dst)
	case Transition:
		o.renderTransition(dst)
	case Playing:
		o.renderRound(dst)
	case Result:
		o.renderResult(dst)
	}
}

var logo = []string{
	"█▀▄▀█ █ █▀▀ █▀█ █▀█ █ █ █ ▄▀█ █▀█ █▀▀",
	"█ ▀ █ █ █▄▄ █▀▄ █▄█ ▀▄▀▄▀ █▀█ █▀▄ ██▄",
}

func (o *Orchestrator) renderTitle(dst *core.Screen) {
	y := dst.Height()/2 - 5
	for i, line := range logo {
		dst.DrawTextCentered(y+i, line, core.ColorBrightMagenta)
	}
	dst.DrawTextCentered(y+3, "microgame madness", core.ColorGray)

	if last, ok := o.LastRun(); ok {
		headline := "RUN ENDED"
		if last.Over {
			headline = "GAME OVER"
		}
		dst.DrawTextCentered(y+5, headline, core.ColorBrightRed)
		dst.DrawTextCentered(y+6, fmt.Sprintf("score %d  rounds %d  speed x%.1f",
			last.State.Score, last.State.GamesCompleted, last.State.Speed), core.ColorWhite)
	}

	dst.DrawTextCentered(y+8, "SPACE start   D debug   TAB scores   Q quit", core.ColorBrightYellow)
}

func (o *Orchestrator) renderHUD(dst *core.Screen, y int) {
	hearts := o.cfg.Run.InitialLives
	if o.state.Lives > hearts {
		hearts = o.state.Lives
	}
	x := 1
	for i := 0; i < hearts; i++ {
		if i < o.state.Lives {
			dst.SetColor(x, y, '♥', core.ColorBrightRed)
		} else {
			dst.SetColor(x, y, '♡', core.ColorGray)
		}
		x += 2
	}
	right := fmt.Sprintf("SCORE %d   SPEED x%.1f", o.state.Score, o.state.Speed)
	dst.DrawTextColor(dst.Width()-len(right)-1, y, right, core.ColorWhite)
}

func (o *Orchestrator) renderTransition(dst *core.Screen) {
	b := o.banner
	if b.Flash {
		dst.DrawRect(dst.Bounds(), '█', core.ColorBrightWhite)
		return
	}

	o.renderHUD(dst, 0)
	mid := dst.Height() / 2
	if b.LifeLost {
		dst.DrawTextCentered(mid-4, "LIFE LOST!", core.ColorBrightRed)
	}
	if b.Prompt != "" {
		dst.DrawTextCentered(mid-1, spaced(b.Prompt), core.ColorBrightYellow)
	}
	if b.Countdown > 0 {
		dst.DrawTextCentered(mid+2, fmt.Sprintf("%d", b.Countdown), core.ColorBrightCyan)
	}
	if o.state.DebugMode {
		dst.DrawTextCentered(dst.Height()-1, "debug", core.ColorGray)
	}
}

func (o *Orchestrator) renderRound(dst *core.Screen) {
	if o.round == nil {
		return
	}
	o.round.Render(dst)

	o.renderHUD(dst, 0)
	dst.DrawTextCentered(0, o.banner.Prompt, core.ColorBrightYellow)

	color := core.ColorBrightGreen
	frac := o.round.Fraction()
	switch {
	case frac < 0.25:
		color = core.ColorBrightRed
	case frac < 0.5:
		color = core.ColorBrightYellow
	}
	dst.DrawBar(0, dst.Height()-1, dst.Width(), frac, color)
}

func (o *Orchestrator) renderResult(dst *core.Screen) {
	o.renderHUD(dst, 0)
	mid := dst.Height() / 2
	if o.banner.Outcome == Won {
		dst.DrawTextCentered(mid, spaced("WIN!"), core.ColorBrightGreen)
	} else {
		dst.DrawTextCentered(mid, spaced("FAIL!"), core.ColorBrightRed)
	}
}

// spaced letter-spaces a prompt so it reads as a headline.
func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}
