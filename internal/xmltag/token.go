// Package xmltag finds XML-like tags in a plain text buffer without building a
// parse tree.
//
// Two grammars are provided and they are deliberately distinct:
//
//   - Strict matches only bare element tags (<name>, </name>, optional
//     whitespace before '>'). Live sync and cursor lookup use it, so tags
//     carrying attributes or malformed names never pair or rename.
//   - Permissive matches a name followed by any run of non-'>' characters,
//     so attributed and self-closing tags are seen as opaque units. The
//     validator and pretty printer use it.
//
// Every call rescans the text it is given. Tokens are values and are never
// cached between calls.
package xmltag

// Token is one lexical tag occurrence.
// Offsets are byte offsets; End and NameEnd are exclusive.
type Token struct {
	Name        string
	Closing     bool
	SelfClosing bool
	Start       int
	End         int
	NameStart   int
	NameEnd     int
}

// Text returns the full tag text of t within text.
func (t Token) Text(text string) string {
	return text[t.Start:t.End]
}

// Pair associates an opening and closing token by nesting position.
// Names are not required to match.
type Pair struct {
	Open  Token
	Close Token
}

// Matched reports whether both sides of the pair currently carry the same name.
func (p Pair) Matched() bool {
	return p.Open.Name == p.Close.Name
}
