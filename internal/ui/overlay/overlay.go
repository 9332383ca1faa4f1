// Package overlay draws one rendered block on top of another without
// disturbing the styling of either.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position is where the foreground lands.
type Position int

const (
	Center Position = iota
	Top
	Bottom
)

// Config describes the screen the overlay is drawn on.
type Config struct {
	Width    int
	Height   int
	Position Position
	// PadY keeps Top and Bottom overlays off the screen edge.
	PadY int
}

// Place returns bg with fg drawn over it.
func Place(cfg Config, fg, bg string) string {
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	fgLines := strings.Split(fg, "\n")
	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))

	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		under := bgLines[row]

		left := ansi.Truncate(under, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		var right string
		if end := x + ansi.StringWidth(line); end < ansi.StringWidth(under) {
			right = ansi.TruncateLeft(under, end, "")
		}
		bgLines[row] = left + line + right
	}
	return strings.Join(bgLines, "\n")
}

func origin(cfg Config, w, h int) (x, y int) {
	x = (cfg.Width - w) / 2
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	case Bottom:
		y = cfg.Height - h - cfg.PadY
	default:
		y = (cfg.Height - h) / 2
	}
	return max(x, 0), max(y, 0)
}
