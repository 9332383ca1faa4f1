package xmltag

// Locate returns the first token whose name span holds the cursor.
// The cursor matches from NameStart through NameEnd inclusive, and also
// anywhere after NameStart up to (not including) the closing '>', which
// covers trailing whitespace inside the tag.
func Locate(tokens []Token, cursor int) (Token, bool) {
	for _, tok := range tokens {
		if cursor >= tok.NameStart && cursor <= tok.NameEnd {
			return tok, true
		}
		if cursor > tok.NameStart && cursor <= tok.End-1 {
			return tok, true
		}
	}
	return Token{}, false
}

// LocateEditing is the lookup used while a name is being typed. It accepts
// one extra position past NameEnd so a character just appended to the name
// still selects the tag, but never reaches past the tag's '>': a cursor
// sitting right after a complete tag is not editing it.
func LocateEditing(tokens []Token, cursor int) (Token, bool) {
	for _, tok := range tokens {
		upper := min(tok.NameEnd+1, tok.End-1)
		if cursor >= tok.NameStart && cursor <= upper {
			return tok, true
		}
	}
	return Token{}, false
}
