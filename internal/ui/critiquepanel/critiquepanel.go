// Package critiquepanel shows LLM questions and analysis for the prompt
// being edited.
package critiquepanel

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SoloveyLS/xml-prompt-manager/internal/critique"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/markdown"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/styles"
)

// RunMsg asks the app to run a critique.
type RunMsg struct {
	Kind  critique.Kind
	Focus string
}

// ResultMsg carries a finished critique back to the panel.
type ResultMsg struct {
	Kind   critique.Kind
	Result critique.Result
	Err    error
}

// CloseMsg is sent when the panel is dismissed.
type CloseMsg struct{}

// Model is the panel state.
type Model struct {
	kind     critique.Kind
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	style    string
	renderer *markdown.Renderer

	visible bool
	running bool
	text    string
	err     error
	cached  bool

	width  int
	height int
}

// New returns a hidden panel rendering with the given glamour style.
func New(style string) Model {
	ti := textinput.New()
	ti.Prompt = "Focus: "
	ti.Placeholder = "optional, e.g. tone or output format"
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		style:    style,
	}
}

// Open shows the panel for kind with the focus field ready.
func (m Model) Open(kind critique.Kind) (Model, tea.Cmd) {
	if m.kind != kind {
		m.text, m.err, m.cached = "", nil, false
	}
	m.kind = kind
	m.visible = true
	m.input.Focus()
	return m.refresh(), textinput.Blink
}

// Close hides the panel. The last result is kept.
func (m Model) Close() Model {
	m.visible = false
	m.input.Blur()
	return m
}

// Visible reports whether the panel is shown.
func (m Model) Visible() bool {
	return m.visible
}

// Running reports whether a request is in flight.
func (m Model) Running() bool {
	return m.running
}

// Kind returns the critique the panel is showing.
func (m Model) Kind() critique.Kind {
	return m.kind
}

// SetSize sets the panel size including its border.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	m.viewport.Width = max(width-2, 1)
	m.viewport.Height = max(height-4, 1)
	m.input.Width = max(width-4-len(m.input.Prompt), 1)
	return m.refresh()
}

// Start marks a request as running.
func (m Model) Start() (Model, tea.Cmd) {
	m.running = true
	m.err = nil
	m.input.Blur()
	return m.refresh(), m.spinner.Tick
}

// Update handles keys, spinner ticks and results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResultMsg:
		if msg.Kind != m.kind {
			return m, nil
		}
		m.running = false
		m.text, m.err, m.cached = msg.Result.Text, msg.Err, msg.Result.Cached
		m = m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m.refresh(), cmd

	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m.Close(), func() tea.Msg { return CloseMsg{} }
		case "enter":
			if m.running {
				return m, nil
			}
			run := RunMsg{Kind: m.kind, Focus: strings.TrimSpace(m.input.Value())}
			return m, func() tea.Msg { return run }
		case "tab":
			if m.input.Focused() {
				m.input.Blur()
			} else {
				m.input.Focus()
			}
			return m, nil
		}
		if m.input.Focused() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) refresh() Model {
	var body string
	switch {
	case m.running:
		body = m.spinner.View() + " " + m.kind.Progress()
	case m.err != nil:
		body = styles.StatusInvalidStyle.Render(errorText(m.err))
	case m.text != "":
		body = m.render(m.text)
		if m.cached {
			body = styles.MutedStyle.Render("(cached)") + "\n" + body
		}
	default:
		body = styles.MutedStyle.Render("Press enter to run. Tab moves between the focus field and the results.")
	}
	m.viewport.SetContent(body)
	return m
}

func (m *Model) render(text string) string {
	width := max(m.viewport.Width-1, 10)
	if m.renderer == nil || m.renderer.Width() != width {
		r, err := markdown.New(width, m.style)
		if err != nil {
			return markdown.Plain(text, width)
		}
		m.renderer = r
	}
	return m.renderer.Render(text)
}

func errorText(err error) string {
	var apiErr *critique.APIError
	switch {
	case errors.Is(err, critique.ErrEmptyPrompt), errors.Is(err, critique.ErrNotConfigured):
		return err.Error()
	case errors.As(err, &apiErr):
		return "Error: " + apiErr.Error()
	}
	return "Error: " + err.Error()
}

func (m Model) title() string {
	if m.kind == critique.Analysis {
		return "Understanding Analysis"
	}
	return "Prompt Questions"
}

// View renders the panel, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	content := m.input.View() + "\n" + strings.Repeat("─", max(m.width-2, 1)) + "\n" + m.viewport.View()
	return styles.Panel(content, m.title(), m.width, m.height, true)
}
