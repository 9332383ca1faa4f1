package buffer

// Offsets in State are bytes. Cursor movement and rendering work in
// grapheme clusters (what the user perceives as one character) and display
// columns (terminal cells). The helpers below convert between the three.

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Position is a row/column location where Col counts graphemes.
type Position struct {
	Row int
	Col int
}

// NextGrapheme returns the byte offset just past the grapheme at offset.
func NextGrapheme(text string, offset int) int {
	if offset >= len(text) {
		return len(text)
	}
	cluster, _, _, _ := uniseg.StepString(text[offset:], -1)
	return offset + len(cluster)
}

// PrevGrapheme returns the byte offset of the grapheme ending at offset.
// Scanning restarts at the line start so cluster state stays correct.
func PrevGrapheme(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	offset = clamp(offset, 0, len(text))
	start := LineStart(text, offset)
	if start == offset {
		// Step back over the newline itself.
		return offset - 1
	}
	prev := start
	for pos := start; pos < offset; {
		prev = pos
		pos = NextGrapheme(text, pos)
	}
	return prev
}

// PositionOf converts a byte offset to a row and grapheme column.
func PositionOf(text string, offset int) Position {
	offset = clamp(offset, 0, len(text))
	row := strings.Count(text[:offset], "\n")
	start := LineStart(text, offset)
	return Position{Row: row, Col: uniseg.GraphemeClusterCount(text[start:offset])}
}

// OffsetOf converts a row and grapheme column back to a byte offset.
// Rows past the end land on the last line; columns past the end of a
// line land on its end.
func OffsetOf(text string, pos Position) int {
	start := 0
	for row := 0; row < pos.Row; row++ {
		i := strings.IndexByte(text[start:], '\n')
		if i < 0 {
			break
		}
		start += i + 1
	}
	end := LineEnd(text, start)
	line := text[start:end]

	offset, col, state := 0, 0, -1
	for len(line) > 0 && col < pos.Col {
		cluster, rest, _, next := uniseg.StepString(line, state)
		offset += len(cluster)
		line, state = rest, next
		col++
	}
	return start + offset
}

// DisplayWidth returns the terminal cell width of s.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Lines splits text into its lines without the trailing newlines.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}
