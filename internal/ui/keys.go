package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Open     key.Binding
	Back     key.Binding
	Favorite key.Binding
	Search   key.Binding
	Focus    key.Binding
	Trending key.Binding
	Sidebar  key.Binding
	Theme    key.Binding
	Trailer  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "watchlist"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Trending: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "trending"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sidebar"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Trailer: key.NewBinding(
			key.WithKeys("enter", "p"),
			key.WithHelp("enter", "play trailer"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Favorite, k.Search, k.Focus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Open, k.Back, k.Favorite, k.Trailer},
		{k.Search, k.Focus, k.Trending, k.Sidebar},
		{k.Theme, k.Help, k.Quit},
	}
}

// modalHelp is the key hint line shown under the detail view
func (k keyMap) modalHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Trailer, k.Favorite, k.Back}
}
