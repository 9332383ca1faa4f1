// Package help renders the key reference overlay.
package help

import (
	"strings"

	bhelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/SoloveyLS/xml-prompt-manager/internal/keys"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/overlay"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/styles"
)

// Behavior is one automatic editing rule shown under "Tag editing".
type Behavior struct {
	Trigger string
	Effect  string
}

// Behaviors lists the tag-aware editing rules.
func Behaviors() []Behavior {
	return []Behavior{
		{Trigger: "<name>>", Effect: "expand to <name></name> and select the name"},
		{Trigger: "<name>", Effect: "insert the matching closing tag"},
		{Trigger: "rename a tag", Effect: "its partner follows"},
		{Trigger: "space in a name", Effect: "becomes _"},
		{Trigger: "tab / shift+tab", Effect: "indent or outdent by 4"},
		{Trigger: "enter", Effect: "keep the line's indentation"},
		{Trigger: "alt+↑ / alt+↓", Effect: "move lines"},
	}
}

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor).MarginTop(1)
	triggerStyle = lipgloss.NewStyle().Foreground(styles.TagNameColor).Width(18)
	effectStyle  = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.BorderFocusColor).
			Padding(0, 2)
)

// Model is the help overlay.
type Model struct {
	editor  keys.EditorKeyMap
	sidebar keys.SidebarKeyMap
	help    bhelp.Model
}

// New builds the overlay for the given key maps.
func New(editor keys.EditorKeyMap, sidebar keys.SidebarKeyMap) Model {
	h := bhelp.New()
	h.ShowAll = true
	return Model{editor: editor, sidebar: sidebar, help: h}
}

// Short renders the one-line hint for the status bar.
func (m Model) Short(sidebarFocused bool) string {
	if sidebarFocused {
		return m.help.ShortHelpView(m.sidebar.ShortHelp())
	}
	return m.help.ShortHelpView(m.editor.ShortHelp())
}

// View renders the full reference.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keyboard reference"))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Editor"))
	b.WriteString("\n")
	b.WriteString(m.help.FullHelpView(m.editor.FullHelp()))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Templates"))
	b.WriteString("\n")
	b.WriteString(m.help.FullHelpView(m.sidebar.FullHelp()))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Tag editing"))
	for _, rule := range Behaviors() {
		b.WriteString("\n")
		b.WriteString(triggerStyle.Render(rule.Trigger))
		b.WriteString(effectStyle.Render(rule.Effect))
	}
	return boxStyle.Render(b.String())
}

// Overlay centers the reference over bg.
func (m Model) Overlay(bg string, width, height int) string {
	return overlay.Place(overlay.Config{Width: width, Height: height}, m.View(), bg)
}

// Bindings flattens a key map's full help, for conflict checks.
func Bindings(groups [][]key.Binding) []key.Binding {
	var out []key.Binding
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
