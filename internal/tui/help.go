package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Back      key.Binding
	Enter     key.Binding
	NewChat   key.Binding
	History   key.Binding
	ClearAll  key.Binding
	Journal   key.Binding
	Breathe   key.Binding
	Resources key.Binding
	Trends    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new chat"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "history"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear all history"),
		),
		Journal: key.NewBinding(
			key.WithKeys("ctrl+j"),
			key.WithHelp("ctrl+j", "journal"),
		),
		Breathe: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "breathing"),
		),
		Resources: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "resources"),
		),
		Trends: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "trends"),
		),
	}
}
