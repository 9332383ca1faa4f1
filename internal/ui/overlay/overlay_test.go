package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestPlace_Center(t *testing.T) {
	out := Place(Config{Width: 5, Height: 3}, "XX", "AAAAA\nAAAAA\nAAAAA")
	require.Equal(t, "AAAAA\nAXXAA\nAAAAA", out)
}

func TestPlace_TopAndBottom(t *testing.T) {
	bg := "AAAAA\nAAAAA\nAAAAA\nAAAAA"

	out := Place(Config{Width: 5, Height: 4, Position: Top, PadY: 1}, "X", bg)
	require.Equal(t, "AAAAA\nAAXAA\nAAAAA\nAAAAA", out)

	out = Place(Config{Width: 5, Height: 4, Position: Bottom}, "X", bg)
	require.Equal(t, "AAAAA\nAAAAA\nAAAAA\nAAXAA", out)
}

func TestPlace_PadsShortBackground(t *testing.T) {
	out := Place(Config{Width: 4, Height: 3}, "XX", "A")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, " XX ", lines[1])
}

func TestPlace_LargerThanScreen(t *testing.T) {
	out := Place(Config{Width: 3, Height: 2}, "XXXXX\nXXXXX\nXXXXX", "AAA\nAAA")
	require.Equal(t, "XXXXX\nXXXXX", out, "clamped to the origin and cut at the last row")
}

func TestPlace_KeepsStyledBackground(t *testing.T) {
	bg := lipgloss.NewStyle().Bold(true).Render("AAAAA")
	out := Place(Config{Width: 5, Height: 1}, "X", bg)
	require.Equal(t, 5, lipgloss.Width(out))
	require.Contains(t, out, "X")
}
