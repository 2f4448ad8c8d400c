package search

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	submit      key.Binding
	toggleMode  key.Binding
	toggleFocus key.Binding
	back        key.Binding
	copy        key.Binding
	download    key.Binding
	quit        key.Binding
	forceQuit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "search / open"),
		),
		toggleMode: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "literal/thematic"),
		),
		toggleFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy excerpts"),
		),
		download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.submit, k.toggleMode, k.toggleFocus, k.copy, k.download, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.back, k.forceQuit}}
}
