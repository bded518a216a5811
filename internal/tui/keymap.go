package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
)

// KeyMap holds the browser's bindings. Movement keys are shared by the week
// table and the report viewport.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	Open     key.Binding
	Back     key.Binding
	NextWeek key.Binding
	PrevWeek key.Binding

	Quit       key.Binding
	ForceQuit  key.Binding
	ToggleHelp key.Binding
}

// DefaultKeyMap returns vim-style movement plus arrows.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f", " "), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),

		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open week")),
		Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "weeks")),
		NextWeek: key.NewBinding(key.WithKeys("n", "right", "l"), key.WithHelp("n", "next week")),
		PrevWeek: key.NewBinding(key.WithKeys("p", "left", "h"), key.WithHelp("p", "previous week")),

		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
		ToggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k KeyMap) tableKeys() table.KeyMap {
	keys := table.DefaultKeyMap()
	keys.LineUp = k.Up
	keys.LineDown = k.Down
	keys.PageUp = k.PageUp
	keys.PageDown = k.PageDown
	keys.GotoTop = k.Top
	keys.GotoBottom = k.Bottom
	return keys
}

func (k KeyMap) viewportKeys() viewport.KeyMap {
	keys := viewport.DefaultKeyMap()
	keys.Up = k.Up
	keys.Down = k.Down
	keys.PageUp = k.PageUp
	keys.PageDown = k.PageDown
	return keys
}

// weeksHelp implements help.KeyMap for the week table.
type weeksHelp struct{ KeyMap }

func (h weeksHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.Open, h.ToggleHelp, h.Quit}
}

func (h weeksHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.Up, h.Down, h.PageUp, h.PageDown},
		{h.Top, h.Bottom, h.Open},
		{h.ToggleHelp, h.Quit},
	}
}

// detailHelp implements help.KeyMap for an open report.
type detailHelp struct{ KeyMap }

func (h detailHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.PrevWeek, h.NextWeek, h.Back, h.Quit}
}

func (h detailHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.Up, h.Down, h.PageUp, h.PageDown},
		{h.PrevWeek, h.NextWeek, h.Back},
		{h.ToggleHelp, h.Quit},
	}
}
