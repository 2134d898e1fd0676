package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	tab     key.Binding
	next    key.Binding
	prev    key.Binding
	toggle  key.Binding
	mode    key.Binding
	like    key.Binding
	collect key.Binding
	remove  key.Binding
	clear   key.Binding
	singer  key.Binding
	album   key.Binding
	detail  key.Binding
	search  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev")),
		toggle:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		like:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		collect: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collect list")),
		remove:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		clear:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear queue")),
		singer:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "singer")),
		album:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "album")),
		detail:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "lyrics")),
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.toggle, k.next, k.prev, k.tab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back, k.tab},
		{k.toggle, k.next, k.prev, k.mode, k.detail},
		{k.like, k.collect, k.singer, k.album, k.search},
		{k.remove, k.clear, k.quit},
	}
}
