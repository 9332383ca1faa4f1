// Package newline converts between real newlines and the two-character
// literal sequence `\n`, so a multi-line prompt can be edited as one line
// and expanded again afterwards.
package newline

import "strings"

const fence = "```"

// quote is the restore scanner's state: no quote, one of the single
// character delimiters, or inside a triple-backtick fence.
type quote int

const (
	quoteNone quote = iota
	quoteSingle
	quoteDouble
	quoteBacktick
	quoteFence
)

func (q quote) closes(c byte) bool {
	switch q {
	case quoteSingle:
		return c == '\''
	case quoteDouble:
		return c == '"'
	case quoteBacktick:
		return c == '`'
	}
	return false
}

func opening(c byte) (quote, bool) {
	switch c {
	case '\'':
		return quoteSingle, true
	case '"':
		return quoteDouble, true
	case '`':
		return quoteBacktick, true
	}
	return quoteNone, false
}

// Lessen replaces every newline with the literal `\n`.
func Lessen(text string) string {
	return strings.ReplaceAll(text, "\n", `\n`)
}

// Restore turns literal `\n` back into newlines outside quoted spans.
// Text inside '...', "...", `...` and ``` fences is copied verbatim, so
// escaped newlines inside embedded string literals survive. Inside a quote a
// backslash escapes the following character.
//
// Three backticks are always copied as one unit. They open or close a fence
// only from outside any quote; inside a '...', "..." or `...` span they leave
// the state alone.
func Restore(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	state := quoteNone
	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], fence) {
			b.WriteString(fence)
			i += len(fence)
			switch state {
			case quoteNone:
				state = quoteFence
			case quoteFence:
				state = quoteNone
			}
			continue
		}

		c := text[i]
		if state != quoteNone && c == '\\' {
			end := min(i+2, len(text))
			b.WriteString(text[i:end])
			i = end
			continue
		}
		if state == quoteNone {
			if q, ok := opening(c); ok {
				state = q
				b.WriteByte(c)
				i++
				continue
			}
		}
		if state.closes(c) {
			state = quoteNone
			b.WriteByte(c)
			i++
			continue
		}
		if state == quoteNone && c == '\\' && i+1 < len(text) && text[i+1] == 'n' {
			b.WriteByte('\n')
			i += 2
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}
