package tokens

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/codefold/internal/syntax"
)

// DefaultTabWidth is the indentation width substituted for a leading tab.
const DefaultTabWidth = 4

// Token is one renderable run of text. Tokens carry no position; a token's
// place in its Line determines where it is drawn.
type Token struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// Line is the ordered token sequence of one source line.
type Line struct {
	Tokens []Token `json:"tokens"`
}

// Text concatenates the token values of the line.
func (l Line) Text() string {
	var b strings.Builder
	for _, t := range l.Tokens {
		b.WriteString(t.Value)
	}
	return b.String()
}

// Converter lays raw tokens out over source lines.
type Converter struct {
	// TabWidth is the width of the space token emitted for a line that
	// starts with a tab. Zero means DefaultTabWidth.
	TabWidth int
}

// Convert uses a Converter with the default tab width.
func Convert(source string, raw []RawToken) ([]Line, error) {
	return Converter{}.Convert(source, raw)
}

// Convert lays raw out over the lines of source. Raw tokens must be in source
// order and must not overlap. Text between tokens, indentation and trailing
// blanks are filled in so that Text of the result reproduces source, except
// that a line starting with a tab gets TabWidth spaces as its indentation.
//
// On any error no lines are returned.
func (c Converter) Convert(source string, raw []RawToken) ([]Line, error) {
	if source == "" {
		for i, t := range raw {
			if _, ok := ParseKind(t.Type); !ok {
				return nil, fmt.Errorf("token %d: %w: %q", i, ErrUnknownKind, t.Type)
			}
			if t.Start != t.End {
				return nil, fmt.Errorf("token %d at %s: %w: source is empty", i, t.Span(), ErrOutOfBounds)
			}
		}
		return []Line{}, nil
	}

	tabWidth := c.TabWidth
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}

	lines := strings.Split(source, "\n")
	out := make([]Line, len(lines))
	cursor := make([]int, len(lines))

	for i, t := range raw {
		kind, ok := ParseKind(t.Type)
		if !ok {
			return nil, fmt.Errorf("token %d: %w: %q", i, ErrUnknownKind, t.Type)
		}
		if t.Start == t.End {
			continue
		}

		segments, err := Segments(lines, t.Span())
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}

		line, start := t.Start.Line, t.Start.Char
		if start < cursor[line] {
			return nil, fmt.Errorf("token %d at %s: %w: line %d consumed up to %d", i, t.Span(), ErrUnsorted, line, cursor[line])
		}
		for l := line + 1; l <= t.End.Line; l++ {
			if cursor[l] > 0 {
				return nil, fmt.Errorf("token %d at %s: %w: covers text already placed on line %d", i, t.Span(), ErrUnsorted, l)
			}
		}

		switch {
		case len(out[line].Tokens) == 0 && cursor[line] == 0 && start > 0:
			if lines[line][0] == '\t' {
				out[line].Tokens = append(out[line].Tokens, Token{Kind: KindSpace, Value: strings.Repeat(" ", tabWidth)})
			} else {
				out[line].Tokens = append(out[line].Tokens, gapToken(lines[line][:start]))
			}
		case start > cursor[line]:
			out[line].Tokens = append(out[line].Tokens, gapToken(lines[line][cursor[line]:start]))
		}

		for _, seg := range segments {
			out[seg.Line].Tokens = append(out[seg.Line].Tokens, Token{Kind: kind, Value: seg.Text})
		}

		if t.Start.Line == t.End.Line {
			cursor[line] = t.End.Char
			continue
		}
		for l := line; l < t.End.Line; l++ {
			cursor[l] = len(lines[l])
		}
		cursor[t.End.Line] = t.End.Char
	}

	for l, text := range lines {
		if cursor[l] < len(text) {
			out[l].Tokens = append(out[l].Tokens, gapToken(text[cursor[l]:]))
		}
	}
	return out, nil
}

// gapToken wraps source text no raw token covered.
func gapToken(text string) Token {
	if strings.TrimSpace(text) == "" {
		return Token{Kind: KindSpace, Value: text}
	}
	return Token{Kind: KindPlain, Value: text}
}

// Text joins the lines back into source text.
func Text(lines []Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Text()
	}
	return strings.Join(parts, "\n")
}

// Plain renders source without highlighting, one plain token per non-empty
// line.
func Plain(source string) []Line {
	if source == "" {
		return []Line{}
	}
	lines := strings.Split(source, "\n")
	out := make([]Line, len(lines))
	for i, text := range lines {
		if text != "" {
			out[i].Tokens = []Token{{Kind: KindPlain, Value: text}}
		}
	}
	return out
}

// Segment is the part of a span that falls on one line.
type Segment struct {
	Line int
	Text string
}

// Segments cuts span out of lines, one segment per line. The tail of the
// first line and any intermediate line are omitted when empty, and the head of
// the last line is omitted when the span ends at its first character. An
// empty span yields no segments.
func Segments(lines []string, span syntax.Span) ([]Segment, error) {
	start, end := span.Start, span.End
	if start.Line < 0 || start.Char < 0 || end.Line < 0 || end.Char < 0 {
		return nil, fmt.Errorf("%w: span %s has a negative coordinate", ErrOutOfBounds, span)
	}
	if end.Less(start) {
		return nil, fmt.Errorf("%w: span %s ends before it starts", ErrMalformedToken, span)
	}
	if start.Line >= len(lines) || end.Line >= len(lines) {
		return nil, fmt.Errorf("%w: span %s, source has %d lines", ErrOutOfBounds, span, len(lines))
	}
	if start.Char > len(lines[start.Line]) {
		return nil, fmt.Errorf("%w: span %s starts past the end of line %d", ErrOutOfBounds, span, start.Line)
	}
	if end.Char > len(lines[end.Line]) {
		return nil, fmt.Errorf("%w: span %s ends past the end of line %d", ErrOutOfBounds, span, end.Line)
	}
	if start == end {
		return nil, nil
	}

	if start.Line == end.Line {
		return []Segment{{Line: start.Line, Text: lines[start.Line][start.Char:end.Char]}}, nil
	}

	var out []Segment
	if tail := lines[start.Line][start.Char:]; tail != "" {
		out = append(out, Segment{Line: start.Line, Text: tail})
	}
	for l := start.Line + 1; l < end.Line; l++ {
		if lines[l] != "" {
			out = append(out, Segment{Line: l, Text: lines[l]})
		}
	}
	if end.Char > 0 {
		out = append(out, Segment{Line: end.Line, Text: lines[end.Line][:end.Char]})
	}
	return out, nil
}

// SpanText returns the source text covered by span, lines joined by "\n".
func SpanText(lines []string, span syntax.Span) (string, error) {
	if _, err := Segments(lines, span); err != nil {
		return "", err
	}
	start, end := span.Start, span.End
	if start.Line == end.Line {
		return lines[start.Line][start.Char:end.Char], nil
	}
	parts := make([]string, 0, end.Line-start.Line+1)
	parts = append(parts, lines[start.Line][start.Char:])
	parts = append(parts, lines[start.Line+1:end.Line]...)
	parts = append(parts, lines[end.Line][:end.Char])
	return strings.Join(parts, "\n"), nil
}
