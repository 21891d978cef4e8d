package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	Search        key.Binding
	Clear         key.Binding
	Select        key.Binding
	Next          key.Binding
	Prev          key.Binding
	ThresholdUp   key.Binding
	ThresholdDown key.Binding
	ZoomIn        key.Binding
	ZoomOut       key.Binding
	Reset         key.Binding
	Up            key.Binding
	Down          key.Binding
	Left          key.Binding
	Right         key.Binding
	Help          key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear focus"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "focus similar"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next similar"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev similar"),
	),
	ThresholdUp: key.NewBinding(
		key.WithKeys("]", "."),
		key.WithHelp("]", "threshold +5%"),
	),
	ThresholdDown: key.NewBinding(
		key.WithKeys("[", ","),
		key.WithHelp("[", "threshold -5%"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset view"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "pan up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "pan down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "pan left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "pan right"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.ThresholdUp, k.ThresholdDown, k.ZoomIn, k.ZoomOut, k.Clear, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Clear, k.Select, k.Next, k.Prev},
		{k.ThresholdUp, k.ThresholdDown, k.ZoomIn, k.ZoomOut, k.Reset},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Help, k.Quit},
	}
}
