// Package scope extracts foldable lexical scopes from a syntax tree.
//
// A scope pattern captures the whole construct under KeyScope and the token
// that closes its introducer (an opening brace, an arrow, an HTML start tag)
// under KeyPrefix. The introducer runs from the construct's start to the end
// of the prefix capture; the body runs from there to the construct's end, or
// to the end of the node captured under KeyEnd when the pattern binds one.
package scope

import (
	"slices"

	"github.com/mvp-joe/codefold/internal/matcher"
	"github.com/mvp-joe/codefold/internal/query"
	"github.com/mvp-joe/codefold/internal/syntax"
)

// Capture keys scope patterns bind.
const (
	KeyScope  = "scope"
	KeyPrefix = "prefix"
	KeyEnd    = "end"
)

// Scope is a foldable region. Two scopes are equal when all three
// positions are.
type Scope struct {
	PrefixStart syntax.Position `json:"prefixStart"`
	PrefixEnd   syntax.Position `json:"prefixEnd"`
	End         syntax.Position `json:"end"`
}

// Prefix is the introducer text region.
func (s Scope) Prefix() syntax.Span {
	return syntax.Span{Start: s.PrefixStart, End: s.PrefixEnd}
}

// Body is the region folded away.
func (s Scope) Body() syntax.Span {
	return syntax.Span{Start: s.PrefixEnd, End: s.End}
}

// Span is the whole scope.
func (s Scope) Span() syntax.Span {
	return syntax.Span{Start: s.PrefixStart, End: s.End}
}

// Contains reports whether p lies within the scope.
func (s Scope) Contains(p syntax.Position) bool {
	return s.Span().Contains(p)
}

// Encloses reports whether o lies entirely within s.
func (s Scope) Encloses(o Scope) bool {
	return s.Span().Encloses(o.Span())
}

// Extract returns the distinct scopes m finds in the tree rooted at root,
// sorted by start with enclosing scopes first.
func Extract(root *syntax.Node, m matcher.Matcher) []Scope {
	found := query.Run(root, query.Query[Scope]{
		Matcher: m,
		Extract: fromBindings,
	})
	if len(found) == 0 {
		return []Scope{}
	}

	slices.SortFunc(found, compare)
	return slices.Compact(found)
}

func fromBindings(b matcher.Bindings) (Scope, bool) {
	whole, ok := b[KeyScope]
	if !ok || whole == nil {
		return Scope{}, false
	}
	prefix, ok := b[KeyPrefix]
	if !ok || prefix == nil {
		return Scope{}, false
	}
	end := whole.End()
	if last, ok := b[KeyEnd]; ok && last != nil {
		end = last.End()
	}
	return Scope{
		PrefixStart: whole.Start(),
		PrefixEnd:   prefix.End(),
		End:         end,
	}, true
}

func compare(a, b Scope) int {
	if c := a.PrefixStart.Compare(b.PrefixStart); c != 0 {
		return c
	}
	if c := b.End.Compare(a.End); c != 0 {
		return c
	}
	return a.PrefixEnd.Compare(b.PrefixEnd)
}
