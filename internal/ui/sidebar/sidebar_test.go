package sidebar

import (
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/SoloveyLS/xml-prompt-manager/internal/templates"
)

// TestMain initializes the global zone manager for all tests in this package.
func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func list(names ...string) []*templates.Template {
	out := make([]*templates.Template, len(names))
	for i, n := range names {
		out[i] = &templates.Template{Name: n}
	}
	return out
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func seeded() Model {
	return New().
		SetTemplates(templates.Structure, list("Basic Prompt", "Task Template")).
		SetTemplates(templates.Field, list("Example Field", "Step Field")).
		SetHeight(20).
		Focus()
}

func TestNavigateAndUse(t *testing.T) {
	m := seeded()

	m, _ = m.Update(keyMsg("j"))
	name, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "Task Template", name)

	m, _ = m.Update(keyMsg("down"))
	name, _ = m.Selected()
	require.Equal(t, "Basic Prompt", name, "wraps around")

	_, cmd := m.Update(keyMsg("enter"))
	require.Equal(t, UseMsg{Kind: templates.Structure, Name: "Basic Prompt"}, cmd())
}

func TestSwitchTabAndDelete(t *testing.T) {
	m := seeded()

	m, cmd := m.Update(keyMsg("tab"))
	require.Equal(t, TabMsg{Kind: templates.Field}, cmd())
	require.Equal(t, templates.Field, m.Tab())

	m, _ = m.Update(keyMsg("k"))
	_, cmd = m.Update(keyMsg("d"))
	require.Equal(t, DeleteMsg{Kind: templates.Field, Name: "Step Field"}, cmd())
}

func TestIgnoresKeysWhenBlurred(t *testing.T) {
	m := seeded().Blur()
	m, cmd := m.Update(keyMsg("j"))
	require.Nil(t, cmd)
	name, _ := m.Selected()
	require.Equal(t, "Basic Prompt", name)
}

func TestBack(t *testing.T) {
	_, cmd := seeded().Update(keyMsg("esc"))
	require.Equal(t, BackMsg{}, cmd())
}

func TestEmptyTab(t *testing.T) {
	m := New().SetHeight(10).Focus()
	_, ok := m.Selected()
	require.False(t, ok)

	_, cmd := m.Update(keyMsg("enter"))
	require.Nil(t, cmd)
	require.Contains(t, ansi.Strip(zone.Scan(m.View())), "No templates yet.")
}

func TestSetTemplates_ClampsCursor(t *testing.T) {
	m := seeded()
	m, _ = m.Update(keyMsg("j"))
	m = m.SetTemplates(templates.Structure, list("Only"))
	name, _ := m.Selected()
	require.Equal(t, "Only", name)
}

func TestView(t *testing.T) {
	m := seeded()
	view := ansi.Strip(zone.Scan(m.View()))
	require.Contains(t, view, "Templates")
	require.Contains(t, view, "Structures (2)")
	require.Contains(t, view, "Fields (2)")
	require.Contains(t, view, "> Basic Prompt")
	require.Contains(t, view, "Task Template")
	require.NotContains(t, view, "Example Field")
}

func TestClickItem(t *testing.T) {
	m := seeded()

	var z *zone.ZoneInfo
	require.Eventually(t, func() bool {
		_ = zone.Scan(m.View())
		z = zone.Get(itemZone(templates.Structure, 1))
		return z != nil && !z.IsZero()
	}, time.Second, 5*time.Millisecond)

	_, cmd := m.Update(tea.MouseMsg{
		X:      z.StartX + 1,
		Y:      z.StartY,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionRelease,
	})
	require.NotNil(t, cmd)
	require.Equal(t, UseMsg{Kind: templates.Structure, Name: "Task Template"}, cmd())
}
