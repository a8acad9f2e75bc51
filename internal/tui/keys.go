package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the toast overlay.
type KeyMap struct {
	// Stack
	Expand     key.Binding
	Dismiss    key.Binding
	DismissAll key.Binding
	Invoke     key.Binding
	Detail     key.Binding
	ToggleDnD  key.Binding

	// Snapshots
	CopyJSON key.Binding
	CopyYAML key.Binding

	// Detail overlay
	Back     key.Binding
	CopyBody key.Binding
	Up       key.Binding
	Down     key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns the bindings shown in the compact help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Expand, k.Detail, k.Invoke, k.Back},
		{k.Dismiss, k.DismissAll, k.ToggleDnD},
		{k.CopyJSON, k.CopyYAML, k.CopyBody},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Expand: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "expand stack"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dismiss front"),
		),
		DismissAll: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "dismiss all"),
		),
		Invoke: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "press action"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "inspect front"),
		),
		ToggleDnD: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "do not disturb"),
		),
		CopyJSON: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "copy stacks as JSON"),
		),
		CopyYAML: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy stacks as YAML"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		CopyBody: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy body"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
