package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	Toggle  key.Binding
	Play    key.Binding
	Shuffle key.Binding
	Stop    key.Binding
	Reset   key.Binding

	Faster key.Binding
	Slower key.Binding
	Tempo  key.Binding

	PrevPage key.Binding
	NextPage key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),

		Toggle:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Play:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		Shuffle: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "shuffle")),
		Stop:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Reset:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset")),

		Faster: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
		Tempo: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "tempo"),
		),

		PrevPage: key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "pad page")),
		NextPage: key.NewBinding(key.WithKeys("]")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Play, k.Shuffle, k.Stop, k.Reset, k.Faster, k.Slower, k.Tempo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Reset},
		{k.Play, k.Shuffle, k.Stop},
		{k.Faster, k.Slower, k.Tempo},
		{k.PrevPage, k.Help, k.Quit},
	}
}
