package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the global keybindings. View-specific keys are handled by
// the views themselves.
type KeyMap struct {
	// Views
	GalleryView key.Binding
	BoardView   key.Binding
	TeamsView   key.Binding
	RewardsView key.Binding

	Help       key.Binding
	ThemeCycle key.Binding
	Quit       key.Binding
	Back       key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		GalleryView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "boards"),
		),
		BoardView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "board"),
		),
		TeamsView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "teams"),
		),
		RewardsView: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "rewards"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.GalleryView, k.BoardView, k.TeamsView, k.RewardsView},
		{k.Help, k.ThemeCycle, k.Back, k.Quit},
	}
}
