package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Parent  key.Binding
	Reset   key.Binding
	Reload  key.Binding
	Taller  key.Binding
	Shorter key.Binding
	Export  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "open folder")),
		Parent:  key.NewBinding(key.WithKeys("backspace", "left", "h"), key.WithHelp("backspace", "parent")),
		Reset:   key.NewBinding(key.WithKeys("r", "home"), key.WithHelp("r", "reset root")),
		Reload:  key.NewBinding(key.WithKeys("ctrl+r", "f5"), key.WithHelp("ctrl+r", "reload")),
		Taller:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "band height")),
		Shorter: key.NewBinding(key.WithKeys("-", "_")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export CSV")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Parent, k.Reset, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Parent},
		{k.Reset, k.Reload, k.Taller, k.Export},
		{k.Help, k.Quit},
	}
}
