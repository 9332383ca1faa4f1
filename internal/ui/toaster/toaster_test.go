package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShowAndDismiss(t *testing.T) {
	m := New()
	require.False(t, m.Visible())
	require.Empty(t, m.View())

	m, cmd := m.Show("Template saved", StyleSuccess, time.Millisecond)
	require.True(t, m.Visible())
	require.Contains(t, m.View(), "✓ Template saved")
	require.NotNil(t, cmd)

	m = m.Update(cmd())
	require.False(t, m.Visible())
}

func TestStaleDismissIgnored(t *testing.T) {
	m, first := New().Show("first", StyleInfo, time.Millisecond)
	m, second := m.Show("second", StyleError, time.Millisecond)

	m = m.Update(first())
	require.Equal(t, "second", m.Message(), "dismissal of a replaced toast is ignored")
	require.Contains(t, m.View(), "✗ second")

	m = m.Update(second())
	require.False(t, m.Visible())
}

func TestOverlay(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 30)+"\n", 8), "\n")

	require.Equal(t, bg, New().Overlay(bg, 30, 8))

	m, _ := New().Show("hi", StyleWarn, time.Second)
	out := m.Overlay(bg, 30, 8)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)
	require.Contains(t, lines[5], "! hi")
	require.Equal(t, bg[:30], lines[0])
}
