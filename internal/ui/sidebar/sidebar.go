// Package sidebar lists saved templates in two tabs, structures and
// fields. Structures replace the buffer when used; fields are inserted at
// the caret.
package sidebar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"

	"github.com/SoloveyLS/xml-prompt-manager/internal/keys"
	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/styles"
)

// Width is the sidebar's width including its border.
const Width = 28

// UseMsg asks the app to load or insert a template.
type UseMsg struct {
	Kind templates.Kind
	Name string
}

// DeleteMsg asks the app to confirm and delete a template.
type DeleteMsg struct {
	Kind templates.Kind
	Name string
}

// BackMsg returns focus to the editor.
type BackMsg struct{}

// TabMsg reports that the active tab changed.
type TabMsg struct {
	Kind templates.Kind
}

// Model is the sidebar state.
type Model struct {
	keys    keys.SidebarKeyMap
	tab     templates.Kind
	names   map[templates.Kind][]string
	cursor  map[templates.Kind]int
	focused bool
	height  int
}

// New returns an empty sidebar on the structures tab.
func New() Model {
	return Model{
		keys:   keys.DefaultSidebarKeyMap(),
		tab:    templates.Structure,
		names:  map[templates.Kind][]string{},
		cursor: map[templates.Kind]int{},
	}
}

// SetTemplates replaces the list for kind. The cursor stays on the same
// row where possible.
func (m Model) SetTemplates(kind templates.Kind, list []*templates.Template) Model {
	names := make([]string, len(list))
	for i, t := range list {
		names[i] = t.Name
	}
	m.names = cloneNames(m.names)
	m.names[kind] = names
	m.cursor = cloneCursor(m.cursor)
	m.cursor[kind] = min(m.cursor[kind], max(len(names)-1, 0))
	return m
}

func cloneNames(in map[templates.Kind][]string) map[templates.Kind][]string {
	out := make(map[templates.Kind][]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneCursor(in map[templates.Kind]int) map[templates.Kind]int {
	out := make(map[templates.Kind]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// SetTab switches tabs without emitting TabMsg.
func (m Model) SetTab(kind templates.Kind) Model {
	if kind == templates.Field || kind == templates.Structure {
		m.tab = kind
	}
	return m
}

// Tab returns the active tab.
func (m Model) Tab() templates.Kind {
	return m.tab
}

// Selected returns the highlighted template name on the active tab.
func (m Model) Selected() (string, bool) {
	names := m.names[m.tab]
	if len(names) == 0 {
		return "", false
	}
	return names[m.cursor[m.tab]], true
}

// SetHeight sets the panel height including the border.
func (m Model) SetHeight(h int) Model {
	m.height = h
	return m
}

// Focus gives the sidebar the keyboard.
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur returns the keyboard to the editor.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Focused reports whether the sidebar has the keyboard.
func (m Model) Focused() bool {
	return m.focused
}

func (m Model) move(step int) Model {
	n := len(m.names[m.tab])
	if n == 0 {
		return m
	}
	m.cursor = cloneCursor(m.cursor)
	m.cursor[m.tab] = (m.cursor[m.tab] + step + n) % n
	return m
}

func (m Model) switchTab() (Model, tea.Cmd) {
	if m.tab == templates.Structure {
		m.tab = templates.Field
	} else {
		m.tab = templates.Structure
	}
	kind := m.tab
	return m, func() tea.Msg { return TabMsg{Kind: kind} }
}

// Update handles keys while focused and clicks at any time.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			return m.move(-1), nil
		case key.Matches(msg, m.keys.Down):
			return m.move(1), nil
		case key.Matches(msg, m.keys.SwitchTab):
			return m.switchTab()
		case key.Matches(msg, m.keys.Use):
			return m, m.emit(func(k templates.Kind, n string) tea.Msg { return UseMsg{Kind: k, Name: n} })
		case key.Matches(msg, m.keys.Delete):
			return m, m.emit(func(k templates.Kind, n string) tea.Msg { return DeleteMsg{Kind: k, Name: n} })
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		return m.click(msg)
	}
	return m, nil
}

func (m Model) emit(build func(templates.Kind, string) tea.Msg) tea.Cmd {
	name, ok := m.Selected()
	if !ok {
		return nil
	}
	msg := build(m.tab, name)
	return func() tea.Msg { return msg }
}

func (m Model) click(msg tea.MouseMsg) (Model, tea.Cmd) {
	for _, kind := range templates.Kinds {
		if z := zone.Get(tabZone(kind)); z != nil && z.InBounds(msg) {
			if kind == m.tab {
				return m, nil
			}
			return m.switchTab()
		}
	}
	for i := range m.names[m.tab] {
		if z := zone.Get(itemZone(m.tab, i)); z != nil && z.InBounds(msg) {
			m.cursor = cloneCursor(m.cursor)
			m.cursor[m.tab] = i
			return m, m.emit(func(k templates.Kind, n string) tea.Msg { return UseMsg{Kind: k, Name: n} })
		}
	}
	return m, nil
}

func tabZone(kind templates.Kind) string {
	return "sidebar-tab-" + string(kind)
}

func itemZone(kind templates.Kind, i int) string {
	return fmt.Sprintf("sidebar-%s-%d", kind, i)
}

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(styles.TextPrimaryColor)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	itemStyle        = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
)

// View renders the panel. Zones are marked; the app scans them.
func (m Model) View() string {
	inner := Width - 2

	var tabs []string
	for _, kind := range templates.Kinds {
		label := fmt.Sprintf("%ss (%d)", kind.Label(), len(m.names[kind]))
		st := inactiveTabStyle
		if kind == m.tab {
			st = activeTabStyle
		}
		tabs = append(tabs, zone.Mark(tabZone(kind), st.Render(label)))
	}

	lines := []string{strings.Join(tabs, " "), ""}
	names := m.names[m.tab]
	if len(names) == 0 {
		lines = append(lines, styles.MutedStyle.Render("No templates yet."), styles.MutedStyle.Render("ctrl+t saves the buffer."))
	}

	// Keep the cursor row on screen.
	rows := max(m.height-2-len(lines), 1)
	first := max(m.cursor[m.tab]-rows+1, 0)
	for i := first; i < len(names) && i < first+rows; i++ {
		name := truncate.StringWithTail(names[i], uint(inner-2), "…")
		line := "  " + itemStyle.Render(name)
		if i == m.cursor[m.tab] && m.focused {
			line = styles.SelectionIndicatorStyle.Render("> " + name)
		}
		lines = append(lines, zone.Mark(itemZone(m.tab, i), line))
	}

	return styles.Panel(strings.Join(lines, "\n"), "Templates", Width, max(m.height, 4), m.focused)
}
