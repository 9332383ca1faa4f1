// Package buffer holds the editor snapshot the tag-aware core operates on:
// a full text buffer plus a selection expressed as byte offsets.
//
// The core never owns this state. Callers pass a State in and commit the
// returned State back to whatever surface they edit.
package buffer

import "strings"

// State is a snapshot of the text buffer and its selection.
// Start == End is a plain caret. Offsets are byte offsets into Text.
type State struct {
	Text  string
	Start int
	End   int
}

// New returns a State with the caret at offset.
func New(text string, caret int) State {
	return State{Text: text, Start: caret, End: caret}.Clamp()
}

// Caret returns the selection start, which doubles as the caret for
// operations that ignore the selection extent.
func (s State) Caret() int {
	return s.Start
}

// HasSelection reports whether the selection spans at least one byte.
func (s State) HasSelection() bool {
	return s.Start != s.End
}

// WithCaret collapses the selection to offset.
func (s State) WithCaret(offset int) State {
	s.Start, s.End = offset, offset
	return s.Clamp()
}

// WithSelection sets the selection to [start, end).
func (s State) WithSelection(start, end int) State {
	s.Start, s.End = start, end
	return s.Clamp()
}

// Clamp keeps the selection inside the text and ordered.
func (s State) Clamp() State {
	s.Start = clamp(s.Start, 0, len(s.Text))
	s.End = clamp(s.End, 0, len(s.Text))
	if s.End < s.Start {
		s.Start, s.End = s.End, s.Start
	}
	return s
}

// Before returns the text preceding the caret.
func (s State) Before() string {
	return s.Text[:s.Start]
}

// After returns the text following the selection end.
func (s State) After() string {
	return s.Text[s.End:]
}

// Selected returns the selected text.
func (s State) Selected() string {
	return s.Text[s.Start:s.End]
}

// Replace replaces the selection with text and leaves the caret after it.
func (s State) Replace(text string) State {
	caret := s.Start + len(text)
	s.Text = s.Text[:s.Start] + text + s.Text[s.End:]
	return s.WithCaret(caret)
}

// LineStart returns the offset of the first byte of the line containing offset.
func LineStart(text string, offset int) int {
	offset = clamp(offset, 0, len(text))
	return strings.LastIndexByte(text[:offset], '\n') + 1
}

// LineEnd returns the offset of the newline ending the line containing
// offset, or len(text) on the last line.
func LineEnd(text string, offset int) int {
	offset = clamp(offset, 0, len(text))
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
