// Package textdiff computes line diffs between two versions of a prompt.
package textdiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the change applied to a line.
type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

// Line is one line of a diff, without its newline.
type Line struct {
	Op   Op
	Text string
}

// Lines diffs oldText against newText line by line.
func Lines(oldText, newText string) []Line {
	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var out []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = Delete
		case diffmatchpatch.DiffInsert:
			op = Insert
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, Line{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}

// Changed reports whether any line differs.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

var prefixes = map[Op]string{Equal: " ", Delete: "-", Insert: "+"}

// Format prints lines with diff prefixes, keeping context unchanged lines
// around each change. Elided runs are shown as "...".
func Format(lines []Line, context int) string {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == Equal {
			continue
		}
		for j := max(i-context, 0); j <= min(i+context, len(lines)-1); j++ {
			keep[j] = true
		}
	}

	var b strings.Builder
	skipped := false
	for i, l := range lines {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			b.WriteString("...\n")
			skipped = false
		}
		b.WriteString(prefixes[l.Op])
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
