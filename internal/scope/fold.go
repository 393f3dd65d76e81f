package scope

import (
	"slices"

	"github.com/mvp-joe/codefold/internal/syntax"
)

// Fold is a scope together with the scopes nested directly inside it.
type Fold struct {
	Scope    Scope   `json:"scope"`
	Children []*Fold `json:"children,omitempty"`
}

// Innermost returns the smallest scope containing pos.
func Innermost(scopes []Scope, pos syntax.Position) (Scope, bool) {
	var (
		best  Scope
		found bool
	)
	for _, s := range scopes {
		if !s.Contains(pos) {
			continue
		}
		if !found || best.Encloses(s) {
			best, found = s, true
		}
	}
	return best, found
}

// InnermostLine returns the smallest scope whose introducer starts on line or
// whose region contains it.
func InnermostLine(scopes []Scope, line int) (Scope, bool) {
	var (
		best  Scope
		found bool
	)
	for _, s := range scopes {
		if line < s.PrefixStart.Line || line > s.End.Line {
			continue
		}
		if !found || best.Encloses(s) {
			best, found = s, true
		}
	}
	return best, found
}

// Nest arranges scopes into the forest of their containment. Scopes that
// partially overlap a sibling are placed at the level where they started.
func Nest(scopes []Scope) []*Fold {
	sorted := slices.Clone(scopes)
	slices.SortFunc(sorted, compare)
	sorted = slices.Compact(sorted)

	var (
		roots []*Fold
		stack []*Fold
	)
	for _, s := range sorted {
		f := &Fold{Scope: s}
		for len(stack) > 0 && !stack[len(stack)-1].Scope.Encloses(s) {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, f)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, f)
		}
		stack = append(stack, f)
	}
	return roots
}
