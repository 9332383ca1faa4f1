package textview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/SoloveyLS/xml-prompt-manager/internal/buffer"
)

func init() {
	// Force ANSI color output in tests (lipgloss disables colors when no TTY)
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func plain(m Model, s buffer.State) []string {
	return strings.Split(ansi.Strip(m.View(s)), "\n")
}

func TestView_GutterAndCaret(t *testing.T) {
	m := New().SetSize(20, 5).Focus()
	s := buffer.New("<a>x</a>\nhi", 11)

	lines := plain(m, s)
	require.Equal(t, []string{"1 <a>x</a>", "2 hi "}, lines, "caret past the end draws a cell")

	require.NotEqual(t, m.View(s), ansi.Strip(m.View(s)), "tags are colored")
}

func TestView_NoGutterWhenDisabled(t *testing.T) {
	m := New().SetLineNumbers(false).SetSize(10, 2)
	require.Equal(t, []string{"abc"}, plain(m, buffer.New("abc", 0)))
}

func TestView_GutterGrowsWithLineCount(t *testing.T) {
	text := strings.TrimSuffix(strings.Repeat("x\n", 12), "\n")
	m := New().SetSize(20, 3)
	lines := plain(m, buffer.New(text, 0))
	require.Equal(t, " 1 x", lines[0])
}

func TestFollow_Vertical(t *testing.T) {
	text := strings.TrimSuffix(strings.Repeat("line\n", 10), "\n")
	s := buffer.New(text, buffer.OffsetOf(text, buffer.Position{Row: 7}))

	m := New().SetSize(20, 3).Follow(s)
	row, _ := m.Scroll()
	require.Equal(t, 5, row)

	lines := plain(m, s)
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[2], " 8 "))

	m = m.Follow(buffer.New(text, 0))
	row, _ = m.Scroll()
	require.Zero(t, row)
}

func TestFollow_Horizontal(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxyz0123"
	m := New().SetSize(12, 1).Focus().Follow(buffer.New(text, 25))

	_, col := m.Scroll()
	require.Equal(t, 16, col)
	require.Equal(t, []string{"1 qrstuvwxyz"}, plain(m, buffer.New(text, 25)))
}

func TestFollow_WideCharacters(t *testing.T) {
	text := "日本語日本語"
	m := New().SetLineNumbers(false).SetSize(4, 1).Focus().Follow(buffer.New(text, len(text)))

	_, col := m.Scroll()
	require.Equal(t, 9, col, "display columns, not bytes")
}

func TestOffsetAt(t *testing.T) {
	s := buffer.New("hello\nworld", 0)
	m := New().SetSize(20, 5)

	require.Equal(t, 8, m.OffsetAt(s, 2+2, 1))
	require.Equal(t, 5, m.OffsetAt(s, 15, 0), "past the line end")
	require.Equal(t, 11, m.OffsetAt(s, 0, 4), "past the last line")
	require.Equal(t, 0, m.OffsetAt(s, 0, 0), "click in the gutter")
}

func TestOffsetAt_Graphemes(t *testing.T) {
	s := buffer.New("日本", 0)
	m := New().SetLineNumbers(false).SetSize(10, 1)
	require.Equal(t, 3, m.OffsetAt(s, 2, 0))
	require.Equal(t, 0, m.OffsetAt(s, 1, 0), "clicks inside a wide rune land before it")
}

func TestClassify(t *testing.T) {
	text := "<a>x</a>"
	c := classify(text, 0, false)
	require.Equal(t, bracket, c[0])
	require.Equal(t, name, c[1])
	require.Equal(t, plain, c[3])
	require.Equal(t, name, c[6])

	c = classify("<a>x</b>", 0, false)
	require.Equal(t, unmatched, c[1])
	require.Equal(t, unmatched, c[6])

	c = classify("<a>x", 0, false)
	require.Equal(t, unmatched, c[1], "unclosed")

	c = classify("<br/>", 0, false)
	require.Equal(t, name, c[1], "self-closing tags need no partner")
}

func TestClassify_PartnerOfCaretTag(t *testing.T) {
	text := "<root><a>x</a></root>"
	c := classify(text, 7, true)
	require.Equal(t, partner, c[12], "closing a")
	require.Equal(t, name, c[7], "the tag under the caret keeps its color")
	require.Equal(t, name, c[16])

	c = classify(text, 7, false)
	require.Equal(t, name, c[12], "no partner highlight without focus")
}

func TestView_Selection(t *testing.T) {
	m := New().SetLineNumbers(false).SetSize(10, 1).Focus()
	s := buffer.New("abcd", 0).WithSelection(1, 3)
	out := m.View(s)
	require.Equal(t, "abcd", ansi.Strip(out), "no caret cell while selecting")
	require.NotEqual(t, "abcd", out)
}
