package xmltag

import (
	"iter"
	"regexp"
	"strings"
)

var (
	strictTag     = regexp.MustCompile(`</?([a-zA-Z_][a-zA-Z0-9_]*)\s*>`)
	permissiveTag = regexp.MustCompile(`</?([a-zA-Z_][a-zA-Z0-9_]*)[^>]*>`)
	namePattern   = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// IsName reports whether s is a valid tag name: a letter or underscore
// followed by letters, digits or underscores.
func IsName(s string) bool {
	return namePattern.MatchString(s)
}

// ScanStrict yields bare element tags in left-to-right order.
// Strict tokens are never self-closing.
func ScanStrict(text string) iter.Seq[Token] {
	return scan(strictTag, text)
}

// ScanPermissive yields tags that may carry attributes. A tag whose text
// ends in "/>" is marked SelfClosing.
func ScanPermissive(text string) iter.Seq[Token] {
	return scan(permissiveTag, text)
}

// StrictTokens collects ScanStrict into a slice.
func StrictTokens(text string) []Token {
	return collect(ScanStrict(text))
}

// PermissiveTokens collects ScanPermissive into a slice.
func PermissiveTokens(text string) []Token {
	return collect(ScanPermissive(text))
}

// PairableTokens drops self-closing tokens, which never push or pop.
func PairableTokens(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if !tok.SelfClosing {
			out = append(out, tok)
		}
	}
	return out
}

func scan(re *regexp.Regexp, text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		offset := 0
		for offset < len(text) {
			loc := re.FindStringSubmatchIndex(text[offset:])
			if loc == nil {
				return
			}
			start, end := offset+loc[0], offset+loc[1]
			nameStart, nameEnd := offset+loc[2], offset+loc[3]
			raw := text[start:end]
			tok := Token{
				Name:        text[nameStart:nameEnd],
				Closing:     strings.HasPrefix(raw, "</"),
				SelfClosing: strings.HasSuffix(raw, "/>"),
				Start:       start,
				End:         end,
				NameStart:   nameStart,
				NameEnd:     nameEnd,
			}
			if !yield(tok) {
				return
			}
			// Matches are at least three bytes long, so this always advances.
			offset = end
		}
	}
}

func collect(seq iter.Seq[Token]) []Token {
	var tokens []Token
	for tok := range seq {
		tokens = append(tokens, tok)
	}
	return tokens
}
