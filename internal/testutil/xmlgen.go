// Package testutil holds rapid generators for tag-structured text.
package testutil

import (
	"strings"

	"pgregory.net/rapid"
)

// TagName draws a name accepted by both tag grammars.
func TagName() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z_][a-z0-9_]{0,6}`)
}

// LeafText draws element content free of tag and quote characters.
func LeafText() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-zA-Z0-9 .,:]{0,16}`)
}

// Gap draws the whitespace placed between sibling elements.
func Gap() *rapid.Generator[string] {
	return rapid.SampledFrom([]string{"", " ", "\n", "\n    ", "\n\n\t"})
}

// WellFormed draws a single well-formed element, possibly nested and
// possibly containing self-closing children.
func WellFormed() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		var b strings.Builder
		writeElement(t, &b, 0, false)
		return b.String()
	})
}

// WellFormedStrict draws a well-formed element without self-closing tags,
// so every tag is visible to the strict grammar.
func WellFormedStrict() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		var b strings.Builder
		writeElement(t, &b, 0, true)
		return b.String()
	})
}

// Forest draws one or more well-formed sibling elements.
func Forest() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		n := rapid.IntRange(1, 4).Draw(t, "roots")
		var b strings.Builder
		for range n {
			b.WriteString(Gap().Draw(t, "gap"))
			writeElement(t, &b, 0, false)
		}
		return b.String()
	})
}

func writeElement(t *rapid.T, b *strings.Builder, depth int, strict bool) {
	name := TagName().Draw(t, "name")
	maxKind := 2
	if depth >= 3 {
		maxKind = 1
	}
	kind := rapid.IntRange(0, maxKind).Draw(t, "kind")
	if kind == 1 && strict {
		kind = 0
	}

	switch kind {
	case 0:
		b.WriteString("<" + name + ">")
		b.WriteString(LeafText().Draw(t, "text"))
		b.WriteString("</" + name + ">")
	case 1:
		b.WriteString("<" + name + "/>")
	default:
		b.WriteString("<" + name + ">")
		children := rapid.IntRange(0, 3).Draw(t, "children")
		for range children {
			b.WriteString(Gap().Draw(t, "gap"))
			writeElement(t, b, depth+1, strict)
		}
		b.WriteString(Gap().Draw(t, "gap"))
		b.WriteString("</" + name + ">")
	}
}
