// Package validate checks the tag structure of prompt content.
//
// Validation rescans the full text with the permissive tag grammar and a
// stack of names. It stops at the first problem, scanning left to right,
// and reports it as data: malformed input never produces a Go error.
package validate

import (
	"fmt"
	"strings"

	"github.com/SoloveyLS/xml-prompt-manager/internal/xmltag"
)

// Result is the outcome of a validation pass.
// A valid result has an empty Err; an invalid one always carries a message.
type Result struct {
	Valid bool
	Err   string
}

// Error returns the validation message, empty when valid.
func (r Result) Error() string {
	return r.Err
}

func ok() Result {
	return Result{Valid: true}
}

func fail(format string, args ...any) Result {
	return Result{Err: fmt.Sprintf(format, args...)}
}

// WellFormed verifies that every closing tag matches the most recent open
// tag and that nothing is left open. Self-closing tags are skipped.
func WellFormed(text string) Result {
	if strings.TrimSpace(text) == "" {
		return fail("Content is empty")
	}

	var stack []string
	found := false
	for tok := range xmltag.ScanPermissive(text) {
		found = true
		if tok.SelfClosing {
			continue
		}
		if !tok.Closing {
			stack = append(stack, tok.Name)
			continue
		}
		if len(stack) == 0 {
			return fail("Unexpected closing tag: </%s>", tok.Name)
		}
		expected := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if expected != tok.Name {
			return fail("Mismatched tags: expected </%s>, found </%s>", expected, tok.Name)
		}
	}

	if !found {
		return fail("No XML tags found in content")
	}
	if len(stack) > 0 {
		return fail("Unclosed tags: <%s>", strings.Join(stack, ">, <"))
	}
	return ok()
}

// Structure is WellFormed under the name used by structure templates.
func Structure(text string) Result {
	return WellFormed(text)
}

// SingleRoot verifies WellFormed and then that exactly one element sits at
// depth zero. Self-closing tags at depth zero count as roots.
//
// Field templates are inserted into structure templates as fragments, so
// they must compose as one element.
func SingleRoot(text string) Result {
	if r := WellFormed(text); !r.Valid {
		return r
	}

	depth, roots := 0, 0
	for tok := range xmltag.ScanPermissive(text) {
		switch {
		case tok.SelfClosing:
			if depth == 0 {
				roots++
			}
		case tok.Closing:
			depth--
		default:
			if depth == 0 {
				roots++
			}
			depth++
		}
	}

	switch {
	case roots == 0:
		return fail("No root field found")
	case roots > 1:
		return fail("Expected 1 root field, found %d. Field templates must have a single root element.", roots)
	}
	return ok()
}
