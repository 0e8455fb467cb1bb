package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings handled by the shell rather than the widgets
type KeyMap struct {
	NextView key.Binding
	PrevView key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default shell bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous view"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "?"),
			key.WithHelp("f1/?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// helpKeys merges the shell bindings with those of the active widget
type helpKeys struct {
	shell  KeyMap
	widget interface {
		ShortHelp() []key.Binding
		FullHelp() [][]key.Binding
	}
}

func (h helpKeys) ShortHelp() []key.Binding {
	keys := append([]key.Binding{}, h.widget.ShortHelp()...)
	return append(keys, h.shell.NextView, h.shell.Help, h.shell.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	groups := append([][]key.Binding{}, h.widget.FullHelp()...)
	return append(groups, []key.Binding{h.shell.NextView, h.shell.PrevView, h.shell.Help, h.shell.Quit})
}
