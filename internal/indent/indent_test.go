package indent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/SoloveyLS/xml-prompt-manager/internal/buffer"
)

func TestTab_CaretRoundsToNextStop(t *testing.T) {
	tests := []struct {
		text   string
		caret  int
		want   string
		status string
	}{
		{text: "x", caret: 0, want: "    x", status: "Inserted 4 spaces"},
		{text: "ab", caret: 2, want: "ab  ", status: "Inserted 2 spaces"},
		{text: "a\n   b", caret: 5, want: "a\n    b", status: "Inserted 1 spaces"},
	}
	for _, tt := range tests {
		got, status := Tab(buffer.New(tt.text, tt.caret))
		require.Equal(t, tt.want, got.Text)
		require.Equal(t, tt.status, status)
		require.False(t, got.HasSelection())
	}
}

func TestShiftTab_Caret(t *testing.T) {
	got, status := ShiftTab(buffer.New("      x", 6))
	require.Equal(t, "    x", got.Text)
	require.Equal(t, 4, got.Start)
	require.Equal(t, "Removed 2 spaces", status)

	got, _ = ShiftTab(buffer.New("    x", 4))
	require.Equal(t, "x", got.Text)
	require.Equal(t, 0, got.Start)

	got, status = ShiftTab(buffer.New("ab x", 2))
	require.Equal(t, "ab x", got.Text)
	require.Equal(t, "No indentation to remove", status)

	got, status = ShiftTab(buffer.New("ab x", 3))
	require.Equal(t, "abx", got.Text)
	require.Equal(t, "Removed 1 space", status)
}

func TestTab_SelectionIndentsEveryTouchedLine(t *testing.T) {
	text := "<a>\n  <b>\n</a>"
	s := buffer.State{Text: text, Start: 1, End: 7}

	got, status := Tab(s)
	require.Equal(t, "    <a>\n    <b>\n</a>", got.Text)
	require.Equal(t, "Indented 2 lines", status)
	require.Equal(t, 5, got.Start)
	require.Equal(t, 13, got.End)
}

func TestTab_SelectionFromLineStartKeepsStart(t *testing.T) {
	s := buffer.State{Text: "one\ntwo", Start: 0, End: 7}
	got, _ := Tab(s)
	require.Equal(t, "    one\n    two", got.Text)
	require.Equal(t, 0, got.Start)
	require.Equal(t, 15, got.End)
}

func TestShiftTab_SelectionUnindents(t *testing.T) {
	s := buffer.State{Text: "      a\n    b\nc", Start: 0, End: len("      a\n    b\nc")}
	got, status := ShiftTab(s)
	require.Equal(t, "    a\nb\nc", got.Text)
	require.Equal(t, "Un-indented 3 lines", status)
	require.Equal(t, 0, got.Start)
	require.Equal(t, len(got.Text), got.End)
}

func TestTab_SelectionRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 5).Draw(t, "lines")
		lines := make([]string, n)
		for i := range lines {
			depth := rapid.IntRange(0, 3).Draw(t, "depth")
			lines[i] = strings.Repeat(" ", depth*Width) + rapid.StringMatching(`[a-z<>/]{1,8}`).Draw(t, "line")
		}
		text := strings.Join(lines, "\n")
		s := buffer.State{Text: text, Start: 0, End: len(text)}

		in, _ := Tab(s)
		out, _ := ShiftTab(in)
		require.Equal(t, text, out.Text)
	})
}

func TestNewline_PreservesIndentation(t *testing.T) {
	got, _ := Newline(buffer.New("<a>\n    <b>x</b>", len("<a>\n    <b>x</b>")))
	require.Equal(t, "<a>\n    <b>x</b>\n    ", got.Text)
	require.Equal(t, len(got.Text), got.Start)

	got, _ = Newline(buffer.New("\t  ab", 4))
	require.Equal(t, "\t  a\n\t  b", got.Text)
	require.Equal(t, 8, got.Start)

	got, _ = Newline(buffer.State{Text: "  abc", Start: 3, End: 5})
	require.Equal(t, "  a\n  ", got.Text)
}

func TestMoveLines(t *testing.T) {
	text := "one\ntwo\nthree"

	up, ok := MoveLines(buffer.New(text, 5), Up)
	require.True(t, ok)
	require.Equal(t, "two\none\nthree", up.Text)
	require.Equal(t, 1, up.Start)

	down, ok := MoveLines(buffer.New(text, 5), Down)
	require.True(t, ok)
	require.Equal(t, "one\nthree\ntwo", down.Text)
	require.Equal(t, "two", down.Text[down.Start-1:down.Start+2])

	_, ok = MoveLines(buffer.New(text, 1), Up)
	require.False(t, ok)
	_, ok = MoveLines(buffer.New(text, len(text)), Down)
	require.False(t, ok)

	block, ok := MoveLines(buffer.State{Text: text, Start: 4, End: 10}, Up)
	require.True(t, ok)
	require.Equal(t, "two\nthree\none", block.Text)
	require.Equal(t, "two\nth", block.Selected())
}

func TestMoveLines_UpThenDownRestores(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOfN(rapid.StringMatching(`[a-z ]{0,6}`), 2, 6).Draw(t, "lines")
		text := strings.Join(lines, "\n")
		row := rapid.IntRange(1, len(lines)-1).Draw(t, "row")
		caret := buffer.OffsetOf(text, buffer.Position{Row: row})

		up, ok := MoveLines(buffer.New(text, caret), Up)
		require.True(t, ok)
		back, ok := MoveLines(up, Down)
		require.True(t, ok)
		require.Equal(t, text, back.Text)
		require.Equal(t, caret, back.Start)
	})
}
