// Package syntax holds the language-agnostic syntax tree that every other
// codefold package consumes: positions, spans and nodes built from the
// parse backend's JSON payload.
package syntax

import "fmt"

// Position is a 0-based line and a character offset within that line.
// Character offsets count UTF-8 code units.
type Position struct {
	Line int `json:"line"`
	Char int `json:"char"`
}

// Pos is shorthand for Position{Line: line, Char: char}.
func Pos(line, char int) Position {
	return Position{Line: line, Char: char}
}

// Compare orders positions lexicographically by (Line, Char).
// It returns -1, 0 or +1.
func (p Position) Compare(o Position) int {
	switch {
	case p.Line < o.Line:
		return -1
	case p.Line > o.Line:
		return 1
	case p.Char < o.Char:
		return -1
	case p.Char > o.Char:
		return 1
	}
	return 0
}

// Less reports whether p sorts before o.
func (p Position) Less(o Position) bool {
	return p.Compare(o) < 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Char)
}

// Span is the half-open region [Start, End).
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewSpan builds a span, reporting false when start sorts after end.
func NewSpan(start, end Position) (Span, bool) {
	if end.Less(start) {
		return Span{}, false
	}
	return Span{Start: start, End: end}, true
}

// IsEmpty reports whether the span covers no text.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// MultiLine reports whether the span crosses a line boundary.
func (s Span) MultiLine() bool {
	return s.Start.Line != s.End.Line
}

// Contains reports whether p lies inside the span.
func (s Span) Contains(p Position) bool {
	return !p.Less(s.Start) && p.Less(s.End)
}

// Encloses reports whether o lies entirely inside s.
func (s Span) Encloses(o Span) bool {
	return !o.Start.Less(s.Start) && !s.End.Less(o.End)
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}
