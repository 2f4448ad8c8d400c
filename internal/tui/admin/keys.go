package admin

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	edit      key.Binding
	remove    key.Binding
	reload    key.Binding
	next      key.Binding
	toggle    key.Binding
	save      key.Binding
	confirm   key.Binding
	cancel    key.Binding
	quit      key.Binding
	forceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("↵/e", "edit"),
		),
		remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" ", "left", "right"),
			key.WithHelp("space", "toggle status"),
		),
		save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "save"),
		),
		confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc", "cancel"),
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
