package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap binds terminal keys to session commands. Printable keys not bound
// here are typed into the input buffer.
type keyMap struct {
	Quit         key.Binding
	Confirm      key.Binding
	Backspace    key.Binding
	Delete       key.Binding
	SeekBackward key.Binding
	SeekForward  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save & next"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete"),
			key.WithHelp("del", "delete file"),
		),
		SeekBackward: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "seek back"),
		),
		SeekForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "seek forward"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Confirm, k.SeekBackward, k.SeekForward, k.Delete}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
