package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	focus    key.Binding
	enter    key.Binding
	play     key.Binding
	pause    key.Binding
	next     key.Binding
	previous key.Binding
	volUp    key.Binding
	volDown  key.Binding
	refresh  key.Binding
	discover key.Binding
	shrink   key.Binding
	grow     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/play")),
		play:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		pause:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "pause")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "previous")),
		volUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		volDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		discover: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "discover")),
		shrink:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "narrow speakers")),
		grow:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "widen speakers")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.focus, k.enter, k.play, k.pause, k.next, k.previous, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.focus, k.enter},
		{k.play, k.pause, k.next, k.previous},
		{k.volUp, k.volDown, k.refresh, k.discover},
		{k.shrink, k.grow, k.quit},
	}
}
