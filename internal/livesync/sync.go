// Package livesync keeps the two halves of a tag pair named alike while the
// user edits one of them.
//
// Sync is a pure pass over (text, cursor). Engine adds the two pieces of
// state a live editor needs around it: a reentrancy guard, so the buffer
// write a pass makes cannot trigger another pass, and a debounce, so a burst
// of keystrokes produces one pass.
package livesync

import (
	"github.com/SoloveyLS/xml-prompt-manager/internal/xmltag"
)

// Rename describes the name change a pass applied to the partner tag.
type Rename struct {
	From string
	To   string
}

// Result is the buffer after a sync pass.
type Result struct {
	Text    string
	Cursor  int
	Renamed Rename
	// Partner is the tag that was rewritten, as it was before the pass.
	Partner xmltag.Token
}

// Sync finds the strict tag under the cursor, looks up its pair partner and
// copies the edited name onto it. It reports false, leaving the caller's
// buffer alone, when there is no tag under the cursor, the tag has no
// partner, the names already agree or the edited name is not a valid name.
//
// When the partner lies before the cursor the cursor moves by the change in
// length so it stays on the same character.
func Sync(text string, cursor int) (Result, bool) {
	tokens := xmltag.StrictTokens(text)
	edited, ok := xmltag.LocateEditing(tokens, cursor)
	if !ok {
		return Result{}, false
	}
	partner, ok := xmltag.Partner(edited, xmltag.Pairs(tokens))
	if !ok {
		return Result{}, false
	}

	name := text[edited.NameStart:edited.NameEnd]
	old := text[partner.NameStart:partner.NameEnd]
	if name == old || !xmltag.IsName(name) {
		return Result{}, false
	}

	out := text[:partner.NameStart] + name + text[partner.NameEnd:]
	if partner.NameStart < cursor {
		cursor += len(name) - len(old)
	}
	return Result{
		Text:    out,
		Cursor:  cursor,
		Renamed: Rename{From: old, To: name},
		Partner: partner,
	}, true
}
