package xmltag

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/SoloveyLS/xml-prompt-manager/internal/testutil"
)

func TestIsName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"role", true},
		{"_private", true},
		{"step_2", true},
		{"", false},
		{"2step", false},
		{"has-dash", false},
		{"has space", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, IsName(tt.in), "IsName(%q)", tt.in)
	}
}

func TestScanStrict_Offsets(t *testing.T) {
	text := "x<role>hi</role >"
	tokens := StrictTokens(text)
	require.Len(t, tokens, 2)

	open := tokens[0]
	require.Equal(t, "role", open.Name)
	require.False(t, open.Closing)
	require.Equal(t, 1, open.Start)
	require.Equal(t, 7, open.End)
	require.Equal(t, "role", text[open.NameStart:open.NameEnd])

	closing := tokens[1]
	require.True(t, closing.Closing)
	require.Equal(t, "</role >", closing.Text(text))
	require.Equal(t, closing.Start+2, closing.NameStart)
}

func TestScanStrict_IgnoresAttributesAndBadNames(t *testing.T) {
	text := `<a href="x"></a><1bad></1bad><ok/><ok2>`
	tokens := StrictTokens(text)

	var names []string
	for _, tok := range tokens {
		names = append(names, tok.Text(text))
	}
	require.Equal(t, []string{"</a>", "<ok2>"}, names)
}

func TestScanPermissive_AttributesAndSelfClosing(t *testing.T) {
	text := `<a href="x"><br/><img src="y" /></a>`
	tokens := PermissiveTokens(text)
	require.Len(t, tokens, 4)

	require.Equal(t, "a", tokens[0].Name)
	require.False(t, tokens[0].SelfClosing)
	require.True(t, tokens[1].SelfClosing)
	require.Equal(t, "img", tokens[2].Name)
	require.True(t, tokens[2].SelfClosing)
	require.True(t, tokens[3].Closing)

	require.Len(t, PairableTokens(tokens), 2)
}

func TestScan_IsRestartable(t *testing.T) {
	text := "<a><b></b></a>"
	seq := ScanStrict(text)

	var first []Token
	for tok := range seq {
		first = append(first, tok)
		if len(first) == 2 {
			break
		}
	}
	var second []Token
	for tok := range seq {
		second = append(second, tok)
	}
	require.Len(t, first, 2)
	require.Len(t, second, 4)
	require.Equal(t, first, second[:2])
}

func TestPairs_NestingWithoutNameCheck(t *testing.T) {
	text := "<a><b></c></a></z>"
	pairs := Pairs(StrictTokens(text))
	require.Len(t, pairs, 2)

	require.Equal(t, "b", pairs[0].Open.Name)
	require.Equal(t, "c", pairs[0].Close.Name)
	require.False(t, pairs[0].Matched())

	require.Equal(t, "a", pairs[1].Open.Name)
	require.True(t, pairs[1].Matched())
}

func TestPairs_UnclosedOpeningHasNoPartner(t *testing.T) {
	tokens := StrictTokens("<a><b></b>")
	pairs := Pairs(tokens)
	require.Len(t, pairs, 1)

	_, ok := Partner(tokens[0], pairs)
	require.False(t, ok)

	partner, ok := Partner(tokens[1], pairs)
	require.True(t, ok)
	require.Equal(t, tokens[2], partner)
}

func TestLocate_InclusiveBounds(t *testing.T) {
	text := "<foo >bar</foo>"
	tokens := StrictTokens(text)

	for _, cursor := range []int{1, 2, 4, 5} {
		tok, ok := Locate(tokens, cursor)
		require.True(t, ok, "cursor %d", cursor)
		require.False(t, tok.Closing)
	}

	_, ok := Locate(tokens, 0)
	require.False(t, ok, "cursor before '<' is outside the tag")
	_, ok = Locate(tokens, 6)
	require.False(t, ok, "cursor after '>' is outside the tag")

	tok, ok := Locate(tokens, 13)
	require.True(t, ok)
	require.True(t, tok.Closing)
}

func TestLocateEditing_WidenedBoundStopsAtGreaterThan(t *testing.T) {
	text := "<foo>x</foo>"
	tokens := StrictTokens(text)

	tok, ok := LocateEditing(tokens, 4)
	require.True(t, ok)
	require.Equal(t, "foo", tok.Name)

	// Offset 5 is just past '>' of <foo>; nameEnd+1 would reach it.
	_, ok = LocateEditing(tokens, 5)
	require.False(t, ok)

	// With trailing whitespace the extra position is still inside the tag.
	spaced := "<foo >x</foo>"
	tok, ok = LocateEditing(StrictTokens(spaced), 5)
	require.True(t, ok)
	require.Equal(t, 0, tok.Start)
}

func TestPairs_WellFormedTreesPairByName(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := testutil.WellFormed().Draw(t, "xml")

		tokens := PairableTokens(PermissiveTokens(text))
		pairs := Pairs(tokens)
		require.Len(t, pairs, len(tokens)/2)
		for _, p := range pairs {
			require.True(t, p.Matched(), "pair %q/%q in %q", p.Open.Name, p.Close.Name, text)
			require.Less(t, p.Open.End, p.Close.Start+1)
		}
	})
}

func TestScanStrict_AgreesWithPermissiveOnBareTags(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := testutil.WellFormedStrict().Draw(t, "xml")
		require.Equal(t, PermissiveTokens(text), StrictTokens(text))
	})
}
