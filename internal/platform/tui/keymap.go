package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/microware/internal/core"
)

// KeyMapper translates Bubble Tea key and mouse messages to input events.
// Letters are passed through as runes with no action so typing games see
// exactly what was pressed.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey returns one key-down event per key in msg. A paste yields one
// event per rune.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) []core.Event {
	switch msg.Type {
	case tea.KeyUp:
		return []core.Event{core.Key(core.ActionUp, 0)}
	case tea.KeyDown:
		return []core.Event{core.Key(core.ActionDown, 0)}
	case tea.KeyLeft:
		return []core.Event{core.Key(core.ActionLeft, 0)}
	case tea.KeyRight:
		return []core.Event{core.Key(core.ActionRight, 0)}
	case tea.KeySpace:
		return []core.Event{core.Key(core.ActionPrimary, ' ')}
	case tea.KeyEnter:
		return []core.Event{core.Key(core.ActionConfirm, 0)}
	case tea.KeyEsc:
		return []core.Event{core.Key(core.ActionBack, 0)}
	case tea.KeyBackspace:
		return []core.Event{core.Key(core.ActionBackspace, 0)}
	case tea.KeyCtrlC:
		return []core.Event{core.Key(core.ActionQuit, 0)}
	case tea.KeyRunes:
		evs := make([]core.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			if r == ' ' {
				evs = append(evs, core.Key(core.ActionPrimary, ' '))
				continue
			}
			evs = append(evs, core.Key(core.ActionNone, r))
		}
		return evs
	}
	return nil
}

// MapMouse converts a mouse message to a pointer event. Only left-button
// presses and motion are reported.
func (km *KeyMapper) MapMouse(msg tea.MouseMsg) (core.Event, bool) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return core.Pointer(core.PointerDown, msg.X, msg.Y), true
	case msg.Action == tea.MouseActionMotion:
		return core.Pointer(core.PointerMove, msg.X, msg.Y), true
	}
	return core.Event{}, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "up", "k":
		return MenuActionUp
	case "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
