package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/microware/internal/registry"
)

// DebugMenuKeyMap defines the key bindings for the debug menu.
type DebugMenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k DebugMenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k DebugMenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.Back, k.Quit}}
}

// DefaultDebugMenuKeyMap returns default key bindings.
func DefaultDebugMenuKeyMap() DebugMenuKeyMap {
	return DebugMenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play once"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DebugMenuModel lists every registered microgame and lets the player
// launch one in isolation.
type DebugMenuModel struct {
	items     []registry.Descriptor
	cursor    int
	keys      DebugMenuKeyMap
	help      help.Model
	width     int
	height    int
	selected  string
	goingBack bool
	quitting  bool
}

// NewDebugMenuModel creates a menu over the catalog's current entries.
func NewDebugMenuModel(catalog *registry.Catalog, width, height int) DebugMenuModel {
	h := help.New()
	h.Width = width
	return DebugMenuModel{
		items:  catalog.List(),
		keys:   DefaultDebugMenuKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
}

// Update handles messages for the menu.
func (m DebugMenuModel) Update(msg tea.Msg) (DebugMenuModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if len(m.items) > 0 {
				m.selected = m.items[m.cursor].Key
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

// View renders the menu.
func (m DebugMenuModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("D E B U G"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("play one microgame, then come back here"), m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(dimStyle.Render("No microgames registered."), m.width))
		b.WriteString("\n")
	}

	for i, d := range m.items {
		line := fmt.Sprintf("  %-8s %-10s %4.1fs", d.Key, d.Prompt, d.Duration.Seconds())
		if i == m.cursor {
			line = activeStyle.Render("> " + line[2:])
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		d := m.items[m.cursor]
		b.WriteString("\n")
		b.WriteString(centerText(d.Name, m.width))
		b.WriteString("\n")
		if d.Description != "" {
			b.WriteString(centerText(dimStyle.Render(d.Description), m.width))
			b.WriteString("\n")
		}
		if d.Controls != "" {
			b.WriteString(centerText(dimStyle.Render("controls: "+d.Controls), m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	return b.String()
}

// Selected returns the key chosen by the player, or "".
func (m DebugMenuModel) Selected() string { return m.selected }

// IsGoingBack returns true if user wants to go back to the title.
func (m DebugMenuModel) IsGoingBack() bool { return m.goingBack }

// IsQuitting returns true if user wants to quit entirely.
func (m DebugMenuModel) IsQuitting() bool { return m.quitting }
