// Package editor routes keystrokes to the tag-aware editing core.
//
// Apply is a pure function from a buffer snapshot and a key to the next
// snapshot plus an Effect describing what the caller still has to do:
// arm the debounced sync, run one soon, or show a status line.
package editor

import (
	"github.com/SoloveyLS/xml-prompt-manager/internal/buffer"
	"github.com/SoloveyLS/xml-prompt-manager/internal/indent"
	"github.com/SoloveyLS/xml-prompt-manager/internal/livesync"
	"github.com/SoloveyLS/xml-prompt-manager/internal/newline"
	"github.com/SoloveyLS/xml-prompt-manager/internal/prettify"
)

// KeyType identifies an editing key.
type KeyType int

const (
	KeyRunes KeyType = iota
	KeySpace
	KeyTab
	KeyShiftTab
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyAltUp
	KeyAltDown
)

// Key is one keystroke. Text carries the typed characters for KeyRunes,
// which may be several at once for a paste.
type Key struct {
	Type KeyType
	Text string
}

// Runes returns a KeyRunes key typing s.
func Runes(s string) Key {
	return Key{Type: KeyRunes, Text: s}
}

// Effect is what Apply asks of its caller.
type Effect struct {
	// Changed is set when the buffer text changed.
	Changed bool
	// ScheduleSync asks for a debounced live sync pass.
	ScheduleSync bool
	// SyncSoon asks for a pass right after this update, bypassing the
	// debounce.
	SyncSoon bool
	Status   string
}

// Status messages shown after specific edits.
const (
	StatusPairCreated     = "Created new tag pair - edit the selected tag name"
	StatusSpaceConverted  = "Space converted to underscore in tag name"
	StatusTagSynchronized = "Tag synchronized"
	StatusLessened        = `Converted newlines to literal \n`
	StatusPrettified      = "Restored newlines and indented XML"
)

// Apply performs key on s.
func Apply(s buffer.State, key Key) (buffer.State, Effect) {
	s = s.Clamp()
	switch key.Type {
	case KeyRunes:
		return typeText(s, key.Text)
	case KeySpace:
		if next, ok := livesync.SpaceToUnderscore(s); ok {
			return next, Effect{Changed: true, SyncSoon: true, Status: StatusSpaceConverted}
		}
		return edited(s, s.Replace(" "), "")
	case KeyTab:
		next, status := indent.Tab(s)
		return edited(s, next, status)
	case KeyShiftTab:
		next, status := indent.ShiftTab(s)
		return edited(s, next, status)
	case KeyEnter:
		next, status := indent.Newline(s)
		return edited(s, next, status)
	case KeyBackspace:
		if !s.HasSelection() {
			s = s.WithSelection(buffer.PrevGrapheme(s.Text, s.Start), s.Start)
		}
		return edited(s, s.Replace(""), "")
	case KeyDelete:
		if !s.HasSelection() {
			s = s.WithSelection(s.Start, buffer.NextGrapheme(s.Text, s.Start))
		}
		return edited(s, s.Replace(""), "")
	case KeyAltUp, KeyAltDown:
		dir := indent.Down
		if key.Type == KeyAltUp {
			dir = indent.Up
		}
		next, ok := indent.MoveLines(s, dir)
		if !ok {
			return s, Effect{}
		}
		return next, Effect{Changed: true, ScheduleSync: true}
	default:
		return move(s, key.Type), Effect{}
	}
}

func typeText(s buffer.State, text string) (buffer.State, Effect) {
	if text == "" {
		return s, Effect{}
	}
	next := s.Replace(text)
	if text != ">" {
		return edited(s, next, "")
	}
	if expanded, ok := livesync.ExpandEmptyTag(next); ok {
		return expanded, Effect{Changed: true, Status: StatusPairCreated}
	}
	if closed, ok := livesync.AutoClose(next); ok {
		return closed, Effect{Changed: true}
	}
	return next, Effect{Changed: true}
}

func edited(before, after buffer.State, status string) (buffer.State, Effect) {
	changed := before.Text != after.Text
	return after, Effect{Changed: changed, ScheduleSync: changed, Status: status}
}

func move(s buffer.State, k KeyType) buffer.State {
	text, caret := s.Text, s.Start
	switch k {
	case KeyLeft:
		if s.HasSelection() {
			return s.WithCaret(s.Start)
		}
		return s.WithCaret(buffer.PrevGrapheme(text, caret))
	case KeyRight:
		if s.HasSelection() {
			return s.WithCaret(s.End)
		}
		return s.WithCaret(buffer.NextGrapheme(text, caret))
	case KeyHome:
		return s.WithCaret(buffer.LineStart(text, caret))
	case KeyEnd:
		return s.WithCaret(buffer.LineEnd(text, s.End))
	case KeyUp:
		pos := buffer.PositionOf(text, caret)
		if pos.Row == 0 {
			return s.WithCaret(0)
		}
		pos.Row--
		return s.WithCaret(buffer.OffsetOf(text, pos))
	case KeyDown:
		pos := buffer.PositionOf(text, s.End)
		last := buffer.PositionOf(text, len(text)).Row
		if pos.Row == last {
			return s.WithCaret(len(text))
		}
		pos.Row++
		return s.WithCaret(buffer.OffsetOf(text, pos))
	}
	return s
}

// Sync runs one live sync pass through engine and commits the result to s.
// It reports whether the buffer changed.
func Sync(engine *livesync.Engine, s buffer.State) (buffer.State, bool) {
	ran := engine.Run(s.Text, s.Start, func(res livesync.Result) {
		s = buffer.New(res.Text, res.Cursor)
	})
	return s, ran
}

// Prettify restores literal newlines outside quotes, then re-indents the
// whole buffer. The caret ends up at the end.
func Prettify(s buffer.State) buffer.State {
	text := prettify.Format(newline.Restore(s.Text))
	return buffer.New(text, len(text))
}

// Lessen collapses the buffer to one line. The caret ends up at the end.
func Lessen(s buffer.State) buffer.State {
	text := newline.Lessen(s.Text)
	return buffer.New(text, len(text))
}
