package core

// Action is a semantic input intent, abstracted from physical keys.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionPrimary // space: jump, flap, pet, shield
	ActionConfirm
	ActionBack
	ActionQuit
	ActionDebug
	ActionBackspace
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPrimary:
		return "Primary"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	case ActionDebug:
		return "Debug"
	case ActionBackspace:
		return "Backspace"
	default:
		return "Unknown"
	}
}

// EventKind distinguishes the input sources a round can listen to.
type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
	PointerMove
	PointerDown
)

// Event is one input occurrence delivered to the active round.
// Key events carry both the mapped Action and the typed Rune (zero if none);
// pointer events carry screen cell coordinates.
type Event struct {
	Kind   EventKind
	Action Action
	Rune   rune
	X, Y   int
}

// Key builds a key-down event.
func Key(a Action, r rune) Event {
	return Event{Kind: KeyDown, Action: a, Rune: r}
}

// Release builds a key-up event.
func Release(a Action, r rune) Event {
	return Event{Kind: KeyUp, Action: a, Rune: r}
}

// Pointer builds a pointer event of the given kind at (x, y).
func Pointer(kind EventKind, x, y int) Event {
	return Event{Kind: kind, X: x, Y: y}
}

// IsKey reports whether the event is a key press of action a.
func (e Event) IsKey(a Action) bool {
	return e.Kind == KeyDown && e.Action == a
}
