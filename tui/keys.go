package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the terminal front end.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Save   key.Binding
	Reset  key.Binding
	Quit   key.Binding
	Scroll key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "generate"),
		),
		Back: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "back"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "download markdown"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("pgup", "pgdown"),
			key.WithHelp("pgup/pgdn", "scroll"),
		),
	}
}

// help lists the bindings that apply in phase p.
func (k KeyMap) help(p phase) []key.Binding {
	switch p {
	case phaseTitles:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Reset, k.Quit}
	case phaseContent:
		return []key.Binding{k.Scroll, k.Save, k.Back, k.Reset, k.Quit}
	case phaseLoading:
		return []key.Binding{k.Quit}
	default:
		return []key.Binding{k.Enter, k.Reset, k.Quit}
	}
}
