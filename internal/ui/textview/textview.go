// Package textview draws a buffer snapshot: line numbers, XML tag
// highlighting, the selection and the caret, scrolled so the caret stays
// in view.
package textview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/SoloveyLS/xml-prompt-manager/internal/buffer"
	"github.com/SoloveyLS/xml-prompt-manager/internal/ui/styles"
	"github.com/SoloveyLS/xml-prompt-manager/internal/xmltag"
)

// Model holds the viewport over a buffer. It does not own the text.
type Model struct {
	width   int
	height  int
	top     int // first visible row
	left    int // first visible display column
	focused bool
	gutter  bool
}

// New returns a view with line numbers on.
func New() Model {
	return Model{gutter: true}
}

// SetSize sets the drawing area in cells.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = max(width, 1), max(height, 1)
	return m
}

// Focus shows the caret.
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur hides the caret.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Focused reports whether the caret is drawn.
func (m Model) Focused() bool {
	return m.focused
}

// SetLineNumbers toggles the gutter.
func (m Model) SetLineNumbers(on bool) Model {
	m.gutter = on
	return m
}

// Scroll returns the first visible row and display column.
func (m Model) Scroll() (row, col int) {
	return m.top, m.left
}

func (m Model) gutterWidth(text string) int {
	if !m.gutter {
		return 0
	}
	return len(fmt.Sprint(strings.Count(text, "\n")+1)) + 1
}

func (m Model) textWidth(text string) int {
	return max(m.width-m.gutterWidth(text), 1)
}

// Follow scrolls just enough to bring the caret into view.
func (m Model) Follow(s buffer.State) Model {
	caret := s.Caret()
	pos := buffer.PositionOf(s.Text, caret)
	if pos.Row < m.top {
		m.top = pos.Row
	}
	if pos.Row >= m.top+m.height {
		m.top = pos.Row - m.height + 1
	}

	line := s.Text[buffer.LineStart(s.Text, caret):caret]
	col := buffer.DisplayWidth(line)
	w := m.textWidth(s.Text)
	if col < m.left {
		m.left = col
	}
	// One cell is kept for the caret itself.
	if col >= m.left+w {
		m.left = col - w + 1
	}
	return m
}

// OffsetAt maps a cell inside the view to a byte offset in s, for mouse
// clicks. Cells past a line's end land on the end.
func (m Model) OffsetAt(s buffer.State, x, y int) int {
	row := m.top + max(y, 0)
	target := m.left + max(x-m.gutterWidth(s.Text), 0)

	if row > strings.Count(s.Text, "\n") {
		return len(s.Text)
	}
	start := buffer.OffsetOf(s.Text, buffer.Position{Row: row})
	end := buffer.LineEnd(s.Text, start)

	col, offset, state := 0, start, -1
	rest := s.Text[start:end]
	for len(rest) > 0 {
		cluster, next, width, st := uniseg.FirstGraphemeClusterInString(rest, state)
		if col+width > target {
			break
		}
		col += width
		offset += len(cluster)
		rest, state = next, st
	}
	return offset
}

// class is how one byte of text is drawn.
type class uint8

const (
	plain class = iota
	bracket
	name
	unmatched
	partner
)

// classify marks every byte covered by a tag.
func classify(text string, caret int, focused bool) []class {
	classes := make([]class, len(text))
	tokens := xmltag.PermissiveTokens(text)
	pairs := xmltag.Pairs(xmltag.PairableTokens(tokens))

	mismatched := map[xmltag.Token]bool{}
	paired := map[xmltag.Token]bool{}
	for _, p := range pairs {
		paired[p.Open], paired[p.Close] = true, true
		if !p.Matched() {
			mismatched[p.Open], mismatched[p.Close] = true, true
		}
	}

	var highlight xmltag.Token
	var hasPartner bool
	if focused {
		if tok, ok := xmltag.Locate(tokens, caret); ok {
			highlight, hasPartner = xmltag.Partner(tok, pairs)
		}
	}

	for _, tok := range tokens {
		for i := tok.Start; i < tok.End; i++ {
			classes[i] = bracket
		}
		c := name
		switch {
		case hasPartner && tok == highlight:
			c = partner
		case mismatched[tok] || (!tok.SelfClosing && !paired[tok]):
			c = unmatched
		}
		for i := tok.NameStart; i < tok.NameEnd; i++ {
			classes[i] = c
		}
	}
	return classes
}

func (c class) style() lipgloss.Style {
	switch c {
	case bracket:
		return styles.TagBracketStyle
	case name:
		return styles.TagNameStyle
	case unmatched:
		return styles.TagUnmatchedStyle
	case partner:
		return styles.TagPartnerStyle
	}
	return lipgloss.NewStyle()
}

// View renders s. Call Follow first so the caret is visible.
func (m Model) View(s buffer.State) string {
	s = s.Clamp()
	classes := classify(s.Text, s.Caret(), m.focused)
	lines := buffer.Lines(s.Text)
	gw := m.gutterWidth(s.Text)
	tw := m.textWidth(s.Text)
	caretRow := buffer.PositionOf(s.Text, s.Caret()).Row

	out := make([]string, 0, m.height)
	offset := 0
	for row, line := range lines {
		lineStart := offset
		offset += len(line) + 1
		if row < m.top {
			continue
		}
		if row >= m.top+m.height {
			break
		}

		var b strings.Builder
		if gw > 0 {
			gutter := styles.LineNumberStyle
			if m.focused && row == caretRow {
				gutter = styles.CurrentLineNumberStyle
			}
			b.WriteString(gutter.Render(fmt.Sprintf("%*d ", gw-1, row+1)))
		}
		b.WriteString(m.renderLine(s, line, lineStart, classes, tw))
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

// cell is the drawing key of one grapheme.
type cell struct {
	class    class
	caret    bool
	selected bool
}

func (c cell) style() lipgloss.Style {
	if c.caret {
		return styles.CaretStyle
	}
	st := c.class.style()
	if c.selected {
		st = st.Inherit(styles.SelectionStyle)
	}
	return st
}

// renderLine draws the visible columns of one line, grouping runs of
// graphemes that share a style.
func (m Model) renderLine(s buffer.State, line string, lineStart int, classes []class, width int) string {
	var (
		b       strings.Builder
		run     strings.Builder
		current cell
	)
	emit := func(c cell, text string) {
		if c != current && run.Len() > 0 {
			b.WriteString(current.style().Render(run.String()))
			run.Reset()
		}
		current = c
		run.WriteString(text)
	}

	caret := s.Caret()
	showCaret := m.focused && !s.HasSelection()
	col, offset, state := 0, lineStart, -1
	rest := line
	for len(rest) > 0 {
		cluster, next, w, st := uniseg.FirstGraphemeClusterInString(rest, state)
		rest, state = next, st
		at := offset
		offset += len(cluster)

		if col < m.left {
			col += w
			continue
		}
		if col+w > m.left+width {
			break
		}
		col += w
		emit(cell{
			class:    classes[at],
			caret:    showCaret && at == caret,
			selected: at >= s.Start && at < s.End,
		}, cluster)
	}
	if showCaret && caret == lineStart+len(line) && col-m.left < width {
		emit(cell{caret: true}, " ")
	}
	if run.Len() > 0 {
		b.WriteString(current.style().Render(run.String()))
	}
	return b.String()
}
