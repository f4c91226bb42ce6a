package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	AddQubit    key.Binding
	RemoveQubit key.Binding
	Clear       key.Binding
	Delete      key.Binding
	Palette     key.Binding
	Angle       key.Binding
	Export      key.Binding
	Format      key.Binding
	Save        key.Binding
	Measure     key.Binding
	Bloch       key.Binding
	Oracle      key.Binding
	Tutorial    key.Binding
	Check       key.Binding
	Next        key.Binding
	Message     key.Binding
	Back        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

var keys = keyMap{
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	AddQubit:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "add qubit")),
	RemoveQubit: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "remove qubit")),
	Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
	Delete:      key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "delete")),
	Palette:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "add gate")),
	Angle:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "angle")),
	Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	Format:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "format")),
	Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "save")),
	Measure:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "measure")),
	Bloch:       key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bloch")),
	Oracle:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "oracle")),
	Tutorial:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tutorial")),
	Check:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "check step")),
	Next:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next step")),
	Message:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "message")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Palette, k.Delete, k.Angle, k.Measure, k.Export, k.Tutorial, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.AddQubit, k.RemoveQubit, k.Clear, k.Delete, k.Palette, k.Angle},
		{k.Measure, k.Bloch, k.Oracle, k.Export, k.Format, k.Save},
		{k.Tutorial, k.Check, k.Next, k.Message, k.Quit},
	}
}
