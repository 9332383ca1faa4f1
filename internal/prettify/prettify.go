// Package prettify re-indents tagged prompt text.
//
// The printer tokenizes with the permissive tag grammar, so attributed tags
// pass through as opaque units. Everything between two tags is a text token;
// nothing outside a tag is ever discarded except whitespace.
package prettify

import (
	"strings"

	"github.com/SoloveyLS/xml-prompt-manager/internal/xmltag"
)

// Indent is one nesting level.
const Indent = "    "

type token struct {
	tag  xmltag.Token
	raw  string
	text bool
}

func tokenize(text string) []token {
	var out []token
	pos := 0
	for tag := range xmltag.ScanPermissive(text) {
		if tag.Start > pos {
			out = append(out, token{raw: text[pos:tag.Start], text: true})
		}
		out = append(out, token{tag: tag, raw: tag.Text(text)})
		pos = tag.End
	}
	if pos < len(text) {
		out = append(out, token{raw: text[pos:], text: true})
	}
	return out
}

// Format returns text with one tag or text line per output line, nested
// elements indented by Indent. An element whose only content is a single
// non-blank line is kept on one line. Format is idempotent.
func Format(text string) string {
	tokens := tokenize(text)

	var lines []string
	depth := 0
	emit := func(s string) {
		lines = append(lines, strings.Repeat(Indent, depth)+s)
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.text:
			for _, line := range textLines(tok.raw) {
				emit(line)
			}
		case tok.tag.SelfClosing:
			emit(tok.raw)
		case tok.tag.Closing:
			depth = max(depth-1, 0)
			emit(tok.raw)
		default:
			if content, closing, ok := leaf(tokens, i); ok {
				emit(tok.raw + content + closing)
				i += 2
				continue
			}
			emit(tok.raw)
			depth++
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// leaf reports whether the opening tag at i is followed by exactly one line
// of content and its own closing tag.
func leaf(tokens []token, i int) (content, closing string, ok bool) {
	if i+2 >= len(tokens) {
		return "", "", false
	}
	body, end := tokens[i+1], tokens[i+2]
	if !body.text || end.text || !end.tag.Closing || end.tag.SelfClosing {
		return "", "", false
	}
	if end.tag.Name != tokens[i].tag.Name || strings.Contains(body.raw, "\n") {
		return "", "", false
	}
	content = strings.TrimSpace(body.raw)
	if content == "" {
		return "", "", false
	}
	return content, end.raw, true
}

// textLines splits a text token into the lines to emit. Blank lines are
// dropped. Multi-line text loses its common leading indentation so that
// relative indentation survives re-indenting.
func textLines(raw string) []string {
	if !strings.Contains(raw, "\n") {
		if s := strings.TrimSpace(raw); s != "" {
			return []string{s}
		}
		return nil
	}

	var kept []string
	common := -1
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
		if n := leadingBlanks(line); common < 0 || n < common {
			common = n
		}
	}
	for i, line := range kept {
		kept[i] = line[common:]
	}
	return kept
}

func leadingBlanks(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}
