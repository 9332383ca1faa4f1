// Package modal is a small dialog with an optional text field, used to
// name templates and confirm deletions.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SoloveyLS/xml-prompt-manager/internal/keys"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/overlay"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/styles"
)

const minWidth = 40

// Config controls what the dialog shows.
type Config struct {
	// ID is echoed in SubmitMsg and CancelMsg so callers can tell dialogs
	// apart.
	ID      string
	Title   string
	Message string

	// WithInput adds a single text field.
	WithInput   bool
	Placeholder string
	Value       string

	ConfirmLabel string // default "Save"
	Danger       bool
}

// SubmitMsg is sent when the dialog is confirmed.
type SubmitMsg struct {
	ID    string
	Value string
}

// CancelMsg is sent when the dialog is dismissed.
type CancelMsg struct {
	ID string
}

type focus int

const (
	focusInput focus = iota
	focusConfirm
	focusCancel
)

// Model is the dialog state.
type Model struct {
	cfg   Config
	keys  keys.ConfirmKeyMap
	input textinput.Model
	focus focus
}

// New returns a dialog. With an input the field starts focused, otherwise
// the confirm button does.
func New(cfg Config) Model {
	if cfg.ConfirmLabel == "" {
		cfg.ConfirmLabel = "Save"
	}
	m := Model{cfg: cfg, keys: keys.DefaultConfirmKeyMap(), focus: focusConfirm}
	if cfg.WithInput {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = cfg.Placeholder
		ti.Width = minWidth - 4
		ti.SetValue(cfg.Value)
		ti.Focus()
		m.input = ti
		m.focus = focusInput
	}
	return m
}

// Init starts the cursor blink when there is an input.
func (m Model) Init() tea.Cmd {
	if m.cfg.WithInput {
		return textinput.Blink
	}
	return nil
}

// Value returns the text field contents.
func (m Model) Value() string {
	return m.input.Value()
}

// Update handles keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		// y and n answer a confirmation directly.
		if !m.cfg.WithInput && k.Type == tea.KeyRunes {
			switch {
			case key.Matches(k, m.keys.Yes):
				return m, m.submit()
			case key.Matches(k, m.keys.No):
				return m, m.cancel()
			}
		}
		switch k.String() {
		case "esc":
			return m, m.cancel()
		case "tab", "down":
			return m.cycle(1), nil
		case "shift+tab", "up":
			return m.cycle(-1), nil
		case "left", "right":
			if m.focus != focusInput {
				if m.focus == focusConfirm {
					m.focus = focusCancel
				} else {
					m.focus = focusConfirm
				}
				return m, nil
			}
		case "enter":
			if m.focus == focusCancel {
				return m, m.cancel()
			}
			return m, m.submit()
		}
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) submit() tea.Cmd {
	msg := SubmitMsg{ID: m.cfg.ID, Value: strings.TrimSpace(m.input.Value())}
	return func() tea.Msg { return msg }
}

func (m Model) cancel() tea.Cmd {
	id := m.cfg.ID
	return func() tea.Msg { return CancelMsg{ID: id} }
}

func (m Model) cycle(step int) Model {
	order := []focus{focusConfirm, focusCancel}
	if m.cfg.WithInput {
		order = []focus{focusInput, focusConfirm, focusCancel}
	}
	i := 0
	for j, f := range order {
		if f == m.focus {
			i = j
		}
	}
	m.focus = order[(i+step+len(order))%len(order)]
	if m.focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	return m
}

// View renders the dialog box.
func (m Model) View() string {
	width := max(minWidth, lipgloss.Width(m.cfg.Title)+4)
	inner := width - 4

	var sections []string
	sections = append(sections, styles.TitleStyle.Render(m.cfg.Title))
	if m.cfg.Message != "" {
		sections = append(sections, lipgloss.NewStyle().Width(inner).Render(m.cfg.Message))
	}
	if m.cfg.WithInput {
		border := styles.BorderDefaultColor
		if m.focus == focusInput {
			border = styles.BorderFocusColor
		}
		sections = append(sections, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Width(inner-2).
			Render(m.input.View()))
	}

	confirm := styles.ButtonStyle(m.cfg.Danger, m.focus == focusConfirm).Render(m.cfg.ConfirmLabel)
	cancelStyle := styles.SecondaryButtonStyle
	if m.focus == focusCancel {
		cancelStyle = styles.SecondaryButtonFocusedStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, confirm, "  ", cancelStyle.Render("Cancel"))
	sections = append(sections, lipgloss.PlaceHorizontal(inner, lipgloss.Center, buttons))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(sections, "\n\n"))
}

// Overlay centers the dialog over bg.
func (m Model) Overlay(bg string, width, height int) string {
	return overlay.Place(overlay.Config{Width: width, Height: height, Position: overlay.Center}, m.View(), bg)
}
