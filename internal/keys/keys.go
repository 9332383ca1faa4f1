// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// EditorKeyMap holds the commands available while the buffer has focus.
// Plain text editing keys (arrows, Tab, Enter, Backspace) are not listed
// here; the editor consumes them directly.
type EditorKeyMap struct {
	// Buffer
	Save     key.Binding
	Prettify key.Binding
	Lessen   key.Binding
	Validate key.Binding

	// Templates
	SaveTemplate  key.Binding
	FocusSidebar  key.Binding
	ToggleSidebar key.Binding

	// Critique
	Questions key.Binding
	Analysis  key.Binding

	// General
	Help   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultEditorKeyMap returns the default editor bindings.
func DefaultEditorKeyMap() EditorKeyMap {
	return EditorKeyMap{
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save file"),
		),
		Prettify: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "prettify"),
		),
		Lessen: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "lessen to one line"),
		),
		Validate: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "validate"),
		),

		SaveTemplate: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "save as template"),
		),
		FocusSidebar: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "focus templates"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle templates"),
		),

		Questions: key.NewBinding(
			key.WithKeys("f5"),
			key.WithHelp("f5", "generate questions"),
		),
		Analysis: key.NewBinding(
			key.WithKeys("f6"),
			key.WithHelp("f6", "analyze understanding"),
		),

		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close panel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Prettify, k.FocusSidebar, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k EditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.Prettify, k.Lessen, k.Validate},
		{k.SaveTemplate, k.FocusSidebar, k.ToggleSidebar},
		{k.Questions, k.Analysis},
		{k.Help, k.Escape, k.Quit},
	}
}

// SidebarKeyMap holds the bindings for the template list.
type SidebarKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	SwitchTab key.Binding
	Use       key.Binding
	Delete    key.Binding
	Back      key.Binding
}

// DefaultSidebarKeyMap returns the default template list bindings.
func DefaultSidebarKeyMap() SidebarKeyMap {
	return SidebarKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "structures/fields"),
		),
		Use: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load or insert"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete template"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "ctrl+o"),
			key.WithHelp("esc", "back to editor"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k SidebarKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Use, k.SwitchTab, k.Delete, k.Back}
}

// FullHelp returns keybindings for the full help view.
func (k SidebarKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchTab},
		{k.Use, k.Delete, k.Back},
	}
}

// ConfirmKeyMap holds the bindings for yes/no prompts.
type ConfirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

// DefaultConfirmKeyMap returns the default prompt bindings.
func DefaultConfirmKeyMap() ConfirmKeyMap {
	return ConfirmKeyMap{
		Yes: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}
