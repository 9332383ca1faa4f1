package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Panel draws content in a rounded box with title set into the top edge:
//
//	╭─ Title ──────╮
//	│content       │
//	╰──────────────╯
//
// width and height include the border. Content is clipped to fit.
func Panel(content, title string, width, height int, focused bool) string {
	border := lipgloss.RoundedBorder()
	color := lipgloss.TerminalColor(BorderDefaultColor)
	if focused {
		color = BorderFocusColor
	}
	edge := lipgloss.NewStyle().Foreground(color)

	inner := max(width-2, 1)
	rows := max(height-2, 1)

	var b strings.Builder
	b.WriteString(topEdge(title, inner, edge, focused))
	b.WriteByte('\n')

	lines := strings.Split(content, "\n")
	for i := range rows {
		var line string
		if i < len(lines) {
			line = ansi.Truncate(lines[i], inner, "")
		}
		if pad := inner - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		b.WriteString(edge.Render(border.Left))
		b.WriteString(line)
		b.WriteString(edge.Render(border.Right))
		b.WriteByte('\n')
	}

	b.WriteString(edge.Render(border.BottomLeft + strings.Repeat(border.Bottom, inner) + border.BottomRight))
	return b.String()
}

func topEdge(title string, inner int, edge lipgloss.Style, focused bool) string {
	border := lipgloss.RoundedBorder()
	// "─ " + title + " " needs at least four cells to be worth drawing.
	if title == "" || inner < 4 {
		return edge.Render(border.TopLeft + strings.Repeat(border.Top, inner) + border.TopRight)
	}
	title = ansi.Truncate(title, inner-4, "…")
	titleStyle := MutedStyle
	if focused {
		titleStyle = TitleStyle
	}
	rest := inner - 3 - ansi.StringWidth(title)
	return edge.Render(border.TopLeft+border.Top+" ") +
		titleStyle.Render(title) +
		edge.Render(" "+strings.Repeat(border.Top, rest)+border.TopRight)
}
