package tui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/microware/internal/audio"
	"github.com/vovakirdan/microware/internal/config"
	"github.com/vovakirdan/microware/internal/core"
	"github.com/vovakirdan/microware/internal/orchestrator"
	"github.com/vovakirdan/microware/internal/registry"
	"github.com/vovakirdan/microware/internal/sched"
	"github.com/vovakirdan/microware/internal/storage"
)

type view int

const (
	viewGame view = iota
	viewMenu
	viewScoreboard
)

// Options configure a Model.
type Options struct {
	Config  config.Config
	Runtime core.RuntimeConfig
	Catalog *registry.Catalog // defaults to registry.Default
	Store   *storage.Store    // nil disables history
	Logger  *log.Logger
	Sink    audio.Sink
	Clock   clockwork.Clock // defaults to the real clock

	// DebugGame starts a single debug round of this key instead of the title.
	DebugGame string
}

// Model is the Bubble Tea model for a microware session: title, runs,
// the debug menu and the scoreboard.
type Model struct {
	opts      Options
	sched     *sched.Scheduler
	director  *audio.Director
	orch      *orchestrator.Orchestrator
	screen    *core.Screen
	keys      *KeyMapper
	view      view
	menu      DebugMenuModel
	board     ScoreboardModel
	debugging bool // return to the debug menu when the round ends
	lastPhase orchestrator.Phase
	best      int
	quitting  bool
}

// NewModel wires a scheduler, audio director and orchestrator for one
// player.
func NewModel(opts Options) Model {
	if opts.Catalog == nil {
		opts.Catalog = registry.Default
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Sink == nil {
		opts.Sink = audio.Nop{}
	}
	if opts.Runtime.ScreenW <= 0 || opts.Runtime.ScreenH <= 0 {
		def := core.DefaultConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultConfig().TickRate
	}
	// Use time-based seed if not specified
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}

	s := sched.New(opts.Clock)
	director := audio.NewDirector(s, opts.Sink, audio.Options{
		Shorts: opts.Config.Audio.Shorts,
		Volume: opts.Config.Audio.Volume,
		Seed:   opts.Runtime.Seed,
		Logger: opts.Logger,
	})
	orchOpts := orchestrator.Options{
		Config:    opts.Config,
		Catalog:   opts.Catalog,
		Scheduler: s,
		Audio:     director,
		Logger:    opts.Logger,
		Seed:      opts.Runtime.Seed,
		Width:     opts.Runtime.ScreenW,
		Height:    opts.Runtime.ScreenH,
	}
	if opts.Store != nil {
		orchOpts.Recorder = opts.Store
	}

	m := Model{
		opts:     opts,
		sched:    s,
		director: director,
		orch:     orchestrator.New(orchOpts),
		screen:   core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		keys:     NewKeyMapper(),
	}
	// A debug round from the command line also returns to the menu.
	m.debugging = opts.DebugGame != ""
	m.refreshBest()
	return m
}

// Init shows the title, or starts the requested debug round, and starts
// the tick loop.
func (m Model) Init() tea.Cmd {
	if m.opts.DebugGame != "" {
		if err := m.orch.StartDebug(m.opts.DebugGame); err != nil {
			m.opts.Logger.Warn("cannot start debug round", "game", m.opts.DebugGame, "err", err)
			m.orch.EnterTitle()
		}
	} else {
		m.orch.EnterTitle()
	}
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.view == viewGame {
			if ev, ok := m.keys.MapMouse(msg); ok {
				m.orch.HandleInput(ev)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMenu:
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		switch {
		case m.menu.IsQuitting():
			return m.quit()
		case m.menu.IsGoingBack():
			m.view = viewGame
		case m.menu.Selected() != "":
			if err := m.orch.StartDebug(m.menu.Selected()); err != nil {
				m.opts.Logger.Warn("cannot start debug round", "game", m.menu.Selected(), "err", err)
				m.view = viewGame
				break
			}
			m.view = viewGame
			m.debugging = true
		}
		return m, cmd

	case viewScoreboard:
		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)
		switch {
		case m.board.IsQuitting():
			return m.quit()
		case m.board.IsGoingBack():
			m.view = viewGame
		}
		return m, cmd
	}

	if m.orch.Phase() == orchestrator.Idle {
		return m.handleTitleKey(msg)
	}

	if msg.Type == tea.KeyEsc {
		m.orch.Abort()
		return m, nil
	}
	for _, ev := range m.keys.MapKey(msg) {
		m.orch.HandleInput(ev)
	}
	return m, nil
}

func (m Model) handleTitleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "enter":
		if err := m.orch.StartRun(); err != nil {
			m.opts.Logger.Warn("cannot start run", "err", err)
		}
	case "d", "D":
		m.menu = NewDebugMenuModel(m.opts.Catalog, m.screen.Width(), m.screen.Height())
		m.view = viewMenu
	case "tab":
		m.board = NewScoreboardModel(m.opts.Store, m.opts.Catalog, m.screen.Width(), m.screen.Height())
		m.view = viewScoreboard
	case "q", "Q", "esc":
		return m.quit()
	}
	return m, nil
}

// handleResize processes window resize events. Only future rounds see the
// new size; the round in progress keeps its play area.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.opts.Runtime.ScreenW = msg.Width
	m.opts.Runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.orch.Resize(msg.Width, msg.Height)

	var cmd tea.Cmd
	switch m.view {
	case viewMenu:
		m.menu, cmd = m.menu.Update(msg)
	case viewScoreboard:
		m.board, cmd = m.board.Update(msg)
	}
	return m, cmd
}

// handleTick polls the scheduler once and follows phase changes.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	m.orch.Tick()

	phase := m.orch.Phase()
	if phase == orchestrator.Idle && m.lastPhase != orchestrator.Idle {
		m.refreshBest()
		if m.debugging {
			m.debugging = false
			m.menu = NewDebugMenuModel(m.opts.Catalog, m.screen.Width(), m.screen.Height())
			m.view = viewMenu
		}
	}
	m.lastPhase = phase

	return m, tickCmd(m.opts.Runtime.TickRate)
}

func (m *Model) refreshBest() {
	if m.opts.Store == nil {
		return
	}
	best, err := m.opts.Store.HighScore()
	if err != nil {
		m.opts.Logger.Warn("cannot read high score", "err", err)
		return
	}
	m.best = best
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.orch.Close()
	m.director.Close()
	return m, tea.Quit
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewMenu:
		return m.menu.View()
	case viewScoreboard:
		return m.board.View()
	}

	m.orch.Render(m.screen)
	if m.orch.Phase() == orchestrator.Idle && m.best > 0 {
		m.screen.DrawTextCentered(m.screen.Height()-2, fmt.Sprintf("BEST %d", m.best), core.ColorGray)
	}
	return RenderScreen(m.screen)
}

// Orchestrator exposes the run driver, mainly for tests.
func (m Model) Orchestrator() *orchestrator.Orchestrator {
	return m.orch
}

// Run starts the Bubble Tea program on the local terminal.
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),      // Use alternate screen buffer
		tea.WithMouseAllMotion(), // Pointer games track hover
	)

	_, err := p.Run()
	return err
}
