// Package query runs a matcher over every node of a tree and turns the
// matches into typed results.
package query

import (
	"github.com/mvp-joe/codefold/internal/matcher"
	"github.com/mvp-joe/codefold/internal/syntax"
)

// Query pairs a pattern with the extraction applied to each match.
type Query[T any] struct {
	Matcher matcher.Matcher
	// Extract builds a result from a match. Returning false drops the match.
	Extract func(matcher.Bindings) (T, bool)
}

// Run tests every node of the tree rooted at root, in pre-order, and returns
// the extracted results in that order. A matching node's descendants are
// still visited.
func Run[T any](root *syntax.Node, q Query[T]) []T {
	if root == nil || q.Matcher == nil || q.Extract == nil {
		return nil
	}

	var out []T
	syntax.Walk(root, func(n *syntax.Node) bool {
		if b, ok := q.Matcher.Match(n); ok {
			if v, keep := q.Extract(b); keep {
				out = append(out, v)
			}
		}
		return true
	})
	return out
}
