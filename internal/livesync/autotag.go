package livesync

import (
	"regexp"
	"strings"

	"github.com/SoloveyLS/xml-prompt-manager/internal/buffer"
)

// PlaceholderName is the name given to a pair created from "<>".
const PlaceholderName = "tag_name"

var (
	openTagAtCaret = regexp.MustCompile(`<([a-zA-Z_][a-zA-Z0-9_]*)>$`)
	nameAtCaret    = regexp.MustCompile(`</?[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// ExpandEmptyTag turns a just-typed "<>" into an empty element named
// PlaceholderName and selects the name for overwriting.
func ExpandEmptyTag(s buffer.State) (buffer.State, bool) {
	before := s.Before()
	if !strings.HasSuffix(before, "<>") {
		return s, false
	}
	at := len(before) - 2
	pair := "<" + PlaceholderName + "></" + PlaceholderName + ">"
	text := before[:at] + pair + s.Text[s.Start:]
	return buffer.State{Text: text}.WithSelection(at+1, at+1+len(PlaceholderName)), true
}

// AutoClose inserts the closing tag after a just-typed opening tag, leaving
// the caret between the two. Nothing happens when the matching closing tag
// already follows (ignoring whitespace) or when the tag is preceded by '/'.
func AutoClose(s buffer.State) (buffer.State, bool) {
	before := s.Before()
	m := openTagAtCaret.FindStringSubmatchIndex(before)
	if m == nil {
		return s, false
	}
	name := before[m[2]:m[3]]
	closing := "</" + name + ">"
	if strings.HasPrefix(strings.TrimLeft(s.Text[s.Start:], " \t\r\n\v\f"), closing) {
		return s, false
	}
	if strings.HasSuffix(before[:m[0]], "/") {
		return s, false
	}
	text := before + closing + s.Text[s.Start:]
	return buffer.State{Text: text}.WithCaret(s.Start), true
}

// InTagName reports whether the caret sits at the end of a partly typed
// opening or closing tag name, such as "<ro|" or "</ro|".
func InTagName(s buffer.State) bool {
	return nameAtCaret.MatchString(s.Before())
}

// SpaceToUnderscore replaces a space typed inside a tag name with '_'.
// The caller should schedule a sync pass afterwards so the partner follows.
func SpaceToUnderscore(s buffer.State) (buffer.State, bool) {
	if !InTagName(s) {
		return s, false
	}
	return s.WithCaret(s.Start).Replace("_"), true
}
