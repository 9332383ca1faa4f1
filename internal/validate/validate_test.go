package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/SoloveyLS/xml-prompt-manager/internal/testutil"
)

func TestWellFormed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
		err   string
	}{
		{name: "empty", input: "", err: "Content is empty"},
		{name: "whitespace only", input: " \n\t ", err: "Content is empty"},
		{name: "no tags", input: "just words", err: "No XML tags found in content"},
		{name: "unexpected closing", input: "</a>", err: "Unexpected closing tag: </a>"},
		{name: "mismatched", input: "<a><b></a>", err: "Mismatched tags: expected </b>, found </a>"},
		{name: "unclosed outermost first", input: "<a><b><c></c>", err: "Unclosed tags: <a>, <b>"},
		{name: "self-closing child", input: "<root><child/></root>", valid: true},
		{name: "attributes tolerated", input: `<a kind="x"><b id='1'>t</b></a>`, valid: true},
		{name: "only self-closing", input: "<br/>", valid: true},
		{name: "two roots are fine here", input: "<a></a><b></b>", valid: true},
		{name: "first problem wins", input: "</x><a>", err: "Unexpected closing tag: </x>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := WellFormed(tt.input)
			require.Equal(t, tt.valid, r.Valid)
			require.Equal(t, tt.err, r.Err)
			require.Equal(t, tt.err, r.Error())
		})
	}
}

func TestStructure_IsWellFormed(t *testing.T) {
	require.Equal(t, WellFormed("<a><b></a>"), Structure("<a><b></a>"))
	require.Equal(t, "Content is empty", Structure("").Err)
}

func TestSingleRoot(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
		err   string
	}{
		{name: "empty", input: "   ", err: "Content is empty"},
		{name: "structural error first", input: "<a><b></a>", err: "Mismatched tags: expected </b>, found </a>"},
		{name: "one root", input: "<example>\n  <input></input>\n</example>", valid: true},
		{name: "two roots", input: "<a></a><b></b>", err: "Expected 1 root field, found 2. Field templates must have a single root element."},
		{name: "self-closing counts at depth zero", input: "<a></a><br/>", err: "Expected 1 root field, found 2. Field templates must have a single root element."},
		{name: "self-closing nested ignored", input: "<a><br/><br/></a>", valid: true},
		{name: "lone self-closing root", input: "<br/>", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SingleRoot(tt.input)
			require.Equal(t, tt.valid, r.Valid)
			require.Equal(t, tt.err, r.Err)
		})
	}
}

func TestWellFormed_AcceptsGeneratedTrees(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := testutil.Forest().Draw(t, "xml")
		r := WellFormed(text)
		require.True(t, r.Valid, "%q: %s", text, r.Err)
	})
}

func TestSingleRoot_AcceptsGeneratedElement(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := testutil.WellFormed().Draw(t, "xml")
		r := SingleRoot(text)
		require.True(t, r.Valid, "%q: %s", text, r.Err)
	})
}

func TestWellFormed_RejectsDroppedClosingTag(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := testutil.TagName().Draw(t, "name")
		inner := testutil.WellFormed().Draw(t, "inner")
		r := WellFormed("<" + name + ">" + inner)
		require.False(t, r.Valid)
		require.Equal(t, "Unclosed tags: <"+name+">", r.Err)
	})
}
