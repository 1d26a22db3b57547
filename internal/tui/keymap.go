package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the review screen's keyboard shortcuts.
type KeyMap struct {
	Confirm   key.Binding
	Dismiss   key.Binding
	Skip      key.Binding
	Back      key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "dismiss"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s", "j", "down"),
			key.WithHelp("s/j", "skip"),
		),
		Back: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "finish"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "abort"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Dismiss, k.Skip, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Confirm, k.Dismiss, k.Skip, k.Back},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
