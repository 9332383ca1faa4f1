// Package toaster shows short-lived notifications over the editor.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/overlay"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// Style picks the toast border and icon.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// Model holds the current toast. The zero value shows nothing.
type Model struct {
	message string
	style   Style
	seq     int
}

// New returns an empty toaster.
func New() Model {
	return Model{}
}

// DismissMsg hides the toast it was scheduled for.
type DismissMsg struct {
	seq int
}

// Show replaces the current toast and returns the command that dismisses
// it after d.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.message = message
	m.style = style
	m.seq++
	seq := m.seq
	return m, tea.Tick(d, func(time.Time) tea.Msg { return DismissMsg{seq: seq} })
}

// Update hides the toast when its dismissal arrives. Dismissals for
// replaced toasts are ignored.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		m.message = ""
	}
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.message != ""
}

// Message returns the current toast text.
func (m Model) Message() string {
	return m.message
}

// View renders the toast box, or "" when hidden.
func (m Model) View() string {
	if m.message == "" {
		return ""
	}
	box := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	switch m.style {
	case StyleError:
		return box.BorderForeground(styles.StatusErrorColor).Render("✗ " + m.message)
	case StyleInfo:
		return box.BorderForeground(styles.StatusInfoColor).Render("i " + m.message)
	case StyleWarn:
		return box.BorderForeground(styles.StatusWarningColor).Render("! " + m.message)
	default:
		return box.BorderForeground(styles.StatusSuccessColor).Render("✓ " + m.message)
	}
}

// Overlay draws the toast near the bottom of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{Width: width, Height: height, Position: overlay.Bottom, PadY: 1}, m.View(), bg)
}
