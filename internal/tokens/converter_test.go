package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codefold/internal/syntax"
)

// Test Plan for Convert:
// - Concatenated token values reproduce the source (gaps, indentation, trailing blanks)
// - A multi-line token is split into one same-kind token per non-empty line
// - A line starting with a tab gets a single TabWidth space token
// - Empty source yields zero lines
// - Unknown kinds, out-of-bounds spans and unsorted tokens fail with no lines

func tok(kind string, sl, sc, el, ec int) RawToken {
	return RawToken{Type: kind, Start: syntax.Pos(sl, sc), End: syntax.Pos(el, ec)}
}

func TestConvert_RoundTrip(t *testing.T) {
	t.Parallel()

	source := "int main() {\n    return a + 1;  \n\n}"
	raw := []RawToken{
		tok("keyword", 0, 0, 0, 3),
		tok("function", 0, 4, 0, 8),
		tok("punctuation", 0, 8, 0, 9),
		tok("punctuation", 0, 9, 0, 10),
		tok("punctuation", 0, 11, 0, 12),
		tok("keyword", 1, 4, 1, 10),
		tok("variable", 1, 11, 1, 12),
		tok("operator", 1, 13, 1, 14),
		tok("number", 1, 15, 1, 16),
		tok("punctuation", 1, 16, 1, 17),
		tok("punctuation", 3, 0, 3, 1),
	}

	lines, err := Convert(source, raw)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, source, Text(lines))

	assert.Equal(t, []Token{
		{KindSpace, "    "},
		{KindKeyword, "return"},
		{KindSpace, " "},
		{KindVariable, "a"},
		{KindSpace, " "},
		{KindOperator, "+"},
		{KindSpace, " "},
		{KindNumber, "1"},
		{KindPunctuation, ";"},
		{KindSpace, "  "},
	}, lines[1].Tokens)
	assert.Empty(t, lines[2].Tokens)
}

func TestConvert_MultiLineToken(t *testing.T) {
	t.Parallel()

	source := "x = `one\n\ntwo\nthree`;"
	raw := []RawToken{
		tok("variable", 0, 0, 0, 1),
		tok("operator", 0, 2, 0, 3),
		tok("string", 0, 4, 3, 6),
		tok("punctuation", 3, 6, 3, 7),
	}

	lines, err := Convert(source, raw)
	require.NoError(t, err)
	require.Len(t, lines, 4)

	assert.Equal(t, Token{KindString, "`one"}, lines[0].Tokens[len(lines[0].Tokens)-1])
	assert.Empty(t, lines[1].Tokens, "empty intermediate line gets no segment")
	assert.Equal(t, []Token{{KindString, "two"}}, lines[2].Tokens)
	assert.Equal(t, []Token{{KindString, "three`"}, {KindPunctuation, ";"}}, lines[3].Tokens)
	assert.Equal(t, source, Text(lines))
}

func TestConvert_MultiLineTokenEndingAtLineStart(t *testing.T) {
	t.Parallel()

	source := "/* a\n*/\nb"
	lines, err := Convert(source, []RawToken{
		tok("comment", 0, 0, 2, 0),
		tok("variable", 2, 0, 2, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, []Token{{KindComment, "/* a"}}, lines[0].Tokens)
	assert.Equal(t, []Token{{KindComment, "*/"}}, lines[1].Tokens)
	assert.Equal(t, []Token{{KindVariable, "b"}}, lines[2].Tokens)
}

func TestConvert_TabIndentation(t *testing.T) {
	t.Parallel()

	source := "{\n\tx\n}"
	raw := []RawToken{
		tok("punctuation", 0, 0, 0, 1),
		tok("variable", 1, 1, 1, 2),
		tok("punctuation", 2, 0, 2, 1),
	}

	lines, err := Convert(source, raw)
	require.NoError(t, err)
	assert.Equal(t, []Token{{KindSpace, "    "}, {KindVariable, "x"}}, lines[1].Tokens)

	lines, err = Converter{TabWidth: 2}.Convert(source, raw)
	require.NoError(t, err)
	assert.Equal(t, Token{KindSpace, "  "}, lines[1].Tokens[0])
}

func TestConvert_EmptySource(t *testing.T) {
	t.Parallel()

	lines, err := Convert("", nil)
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = Convert("", []RawToken{tok("keyword", 0, 0, 0, 0)})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestConvert_UncoveredText(t *testing.T) {
	t.Parallel()

	lines, err := Convert("a b\n  \nc", []RawToken{tok("variable", 0, 0, 0, 1)})
	require.NoError(t, err)
	assert.Equal(t, []Token{{KindVariable, "a"}, {KindPlain, " b"}}, lines[0].Tokens)
	assert.Equal(t, []Token{{KindSpace, "  "}}, lines[1].Tokens)
	assert.Equal(t, []Token{{KindPlain, "c"}}, lines[2].Tokens)
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	source := "ab cd\nef"
	tests := []struct {
		name string
		raw  []RawToken
		want error
	}{
		{"unknown kind", []RawToken{tok("sparkle", 0, 0, 0, 2)}, ErrUnknownKind},
		{"line out of range", []RawToken{tok("keyword", 5, 0, 5, 1)}, ErrOutOfBounds},
		{"char out of range", []RawToken{tok("keyword", 1, 0, 1, 9)}, ErrOutOfBounds},
		{"negative start line", []RawToken{tok("variable", -1, 0, 0, 1)}, ErrOutOfBounds},
		{"negative start char", []RawToken{tok("variable", 0, -2, 0, 1)}, ErrOutOfBounds},
		{"negative end", []RawToken{tok("variable", -1, -1, -1, 0)}, ErrOutOfBounds},
		{"inverted", []RawToken{tok("keyword", 0, 3, 0, 1)}, ErrMalformedToken},
		{"overlap", []RawToken{tok("keyword", 0, 0, 0, 4), tok("keyword", 0, 3, 0, 5)}, ErrUnsorted},
		{"out of order", []RawToken{tok("keyword", 0, 3, 0, 5), tok("keyword", 0, 0, 0, 2)}, ErrUnsorted},
		{"multi-line over placed text", []RawToken{tok("keyword", 1, 0, 1, 1), tok("comment", 0, 3, 1, 2)}, ErrUnsorted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lines, err := Convert(source, tt.raw)
			assert.Nil(t, lines)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Convert("", []RawToken{tok("keyword", 0, 0, 0, 1)})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestDecodeRaw(t *testing.T) {
	t.Parallel()

	payload := `[{"type":"keyword","start":[0,0],"end":[0,3]},{"type":"identifier","start":[0,4],"end":[0,5]}]`
	raw, err := DecodeRaw([]byte(payload))
	require.NoError(t, err)
	lines, err := Convert("var x", raw)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, []Token{{KindKeyword, "var"}, {KindSpace, " "}, {KindVariable, "x"}}, lines[0].Tokens)
}

func TestDecodeRaw_Malformed(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{
		``,
		`{}`,
		`[1]`,
		`[{"start":[0,0],"end":[0,1]}]`,
		`[{"type":"keyword","end":[0,1]}]`,
		`[{"type":"keyword","start":[0],"end":[0,1]}]`,
		`[{"type":"keyword","start":[0,2],"end":[0,1]}]`,
	} {
		raw, err := DecodeRaw([]byte(payload))
		assert.Nil(t, raw, payload)
		assert.ErrorIs(t, err, ErrMalformedToken, payload)
	}
}

func TestPlain(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Plain(""))

	source := "a\n\n  b"
	lines := Plain(source)
	require.Len(t, lines, 3)
	assert.Empty(t, lines[1].Tokens)
	assert.Equal(t, source, Text(lines))
}

func TestSpanText(t *testing.T) {
	t.Parallel()

	lines := []string{"int foo;", "  bar", "baz"}
	text, err := SpanText(lines, syntax.Span{Start: syntax.Pos(0, 4), End: syntax.Pos(0, 7)})
	require.NoError(t, err)
	assert.Equal(t, "foo", text)

	text, err = SpanText(lines, syntax.Span{Start: syntax.Pos(0, 4), End: syntax.Pos(2, 1)})
	require.NoError(t, err)
	assert.Equal(t, "foo;\n  bar\nb", text)

	_, err = SpanText(lines, syntax.Span{Start: syntax.Pos(3, 0), End: syntax.Pos(3, 1)})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = SpanText(lines, syntax.Span{Start: syntax.Pos(-1, 0), End: syntax.Pos(0, 1)})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = Segments(lines, syntax.Span{Start: syntax.Pos(0, -1), End: syntax.Pos(0, 1)})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}
