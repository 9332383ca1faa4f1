// Package indent implements the editor's indentation keys.
//
// Indentation is always rounded to multiples of Width spaces: Tab moves to
// the next stop, Shift+Tab to the previous one. With a selection, every line
// the selection touches moves as a block.
package indent

import (
	"fmt"
	"strings"

	"github.com/SoloveyLS/xml-prompt-manager/internal/buffer"
)

// Width is the indentation stop.
const Width = 4

// Tab indents. Without a selection it inserts spaces up to the next stop
// after the caret's column.
func Tab(s buffer.State) (buffer.State, string) {
	if s.HasSelection() {
		return shiftLines(s, true)
	}
	col := buffer.DisplayWidth(s.Text[buffer.LineStart(s.Text, s.Start):s.Start])
	n := Width - col%Width
	return s.Replace(strings.Repeat(" ", n)), fmt.Sprintf("Inserted %d spaces", n)
}

// ShiftTab unindents. Without a selection it removes the spaces directly
// before the caret, back to the previous stop.
func ShiftTab(s buffer.State) (buffer.State, string) {
	if s.HasSelection() {
		return shiftLines(s, false)
	}
	before := s.Before()
	col := buffer.DisplayWidth(before[buffer.LineStart(s.Text, s.Start):])
	want := col % Width
	if want == 0 {
		want = Width
	}
	n := len(before) - len(strings.TrimRight(before, " "))
	n = min(n, want)
	if n == 0 {
		return s, "No indentation to remove"
	}
	s = s.WithSelection(s.Start-n, s.Start).Replace("")
	return s, fmt.Sprintf("Removed %d space%s", n, plural(n))
}

// Newline breaks the line at the caret and repeats the current line's
// leading whitespace on the new line.
func Newline(s buffer.State) (buffer.State, string) {
	line := s.Text[buffer.LineStart(s.Text, s.Start):s.Start]
	lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	return s.Replace("\n" + lead), "New line with preserved indentation"
}

func shiftLines(s buffer.State, in bool) (buffer.State, string) {
	first := buffer.LineStart(s.Text, s.Start)
	last := buffer.LineEnd(s.Text, s.End)
	lines := strings.Split(s.Text[first:last], "\n")

	changes := make([]int, len(lines))
	for i, line := range lines {
		spaces := len(line) - len(strings.TrimLeft(line, " "))
		if in {
			n := Width - spaces%Width
			lines[i] = strings.Repeat(" ", n) + line
			changes[i] = n
			continue
		}
		n := spaces % Width
		if n == 0 {
			n = Width
		}
		n = min(n, spaces)
		lines[i] = line[n:]
		changes[i] = -n
	}

	total := 0
	for _, c := range changes {
		total += c
	}
	start := s.Start
	if start != first {
		start += changes[0]
	}
	start = max(start, 0)
	end := max(s.End+total, start)

	text := s.Text[:first] + strings.Join(lines, "\n") + s.Text[last:]
	out := buffer.State{Text: text, Start: start, End: end}.Clamp()

	verb := "Indented"
	if !in {
		verb = "Un-indented"
	}
	return out, fmt.Sprintf("%s %d line%s", verb, len(lines), plural(len(lines)))
}

// Direction selects which neighbour MoveLines swaps with.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// MoveLines swaps the lines covered by the selection with the line above or
// below. The selection follows the moved text. At the first or last line it
// is a no-op.
func MoveLines(s buffer.State, dir Direction) (buffer.State, bool) {
	text := s.Text
	first := buffer.LineStart(text, s.Start)
	last := buffer.LineEnd(text, s.End)
	block := text[first:last]

	if dir == Up {
		if first == 0 {
			return s, false
		}
		prevStart := buffer.LineStart(text, first-1)
		prev := text[prevStart : first-1]
		out := text[:prevStart] + block + "\n" + prev + text[last:]
		start := prevStart + (s.Start - first)
		end := prevStart + len(block) - (last - s.End)
		return buffer.State{Text: out, Start: start, End: end}.Clamp(), true
	}

	if last == len(text) {
		return s, false
	}
	nextEnd := buffer.LineEnd(text, last+1)
	next := text[last+1 : nextEnd]
	out := text[:first] + next + "\n" + block + text[nextEnd:]
	shift := len(next) + 1
	return buffer.State{Text: out, Start: s.Start + shift, End: s.End + shift}.Clamp(), true
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
