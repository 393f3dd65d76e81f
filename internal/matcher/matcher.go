// Package matcher is a small combinator language for recognising shapes in a
// syntax tree and capturing the nodes of interest.
//
// A pattern is built from Node and AnyOf:
//
//	matcher.Node(matcher.Exact("function_definition"), matcher.Capture("type"),
//		matcher.With(
//			matcher.Node(matcher.Contains("declarator"), matcher.InField("declarator"),
//				matcher.With(matcher.Node(matcher.Exact("identifier"), matcher.Capture("identifier")))),
//		))
//
// Matching never searches a whole subtree. A nested matcher is only tried
// against the direct children of the node its parent matched.
package matcher

import (
	"strings"

	"github.com/mvp-joe/codefold/internal/syntax"
)

// Bindings maps capture keys to the nodes they matched.
type Bindings map[string]*syntax.Node

// Matcher tests a single node.
type Matcher interface {
	// Match reports whether n has the matcher's shape and returns the
	// captured nodes. The bindings are never nil when ok is true.
	Match(n *syntax.Node) (Bindings, bool)

	// Keys lists, for every way the matcher can succeed, the capture keys a
	// match binds, in binding order.
	Keys() [][]string
}

// Predicate tests a node type tag.
type Predicate func(tag string) bool

// Exact matches one type tag.
func Exact(tag string) Predicate {
	return func(t string) bool { return t == tag }
}

// Contains matches every type tag containing sub.
func Contains(sub string) Predicate {
	return func(t string) bool { return strings.Contains(t, sub) }
}

// OneOf matches any of the listed type tags.
func OneOf(tags ...string) Predicate {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return func(t string) bool {
		_, ok := set[t]
		return ok
	}
}

// Option configures a node matcher.
type Option func(*NodeMatcher)

// Capture binds the matched node under key.
func Capture(key string) Option {
	return func(m *NodeMatcher) { m.key = key }
}

// InField restricts nested matchers to the children of the named slot. A
// node without that slot does not match.
func InField(name string) Option {
	return func(m *NodeMatcher) {
		m.field = name
		m.hasField = true
	}
}

// With adds nested matchers. Every one of them has to match some child.
func With(children ...Matcher) Option {
	return func(m *NodeMatcher) { m.children = append(m.children, children...) }
}

// NodeMatcher matches a node by its type tag and, optionally, its children.
type NodeMatcher struct {
	pred     Predicate
	key      string
	field    string
	hasField bool
	children []Matcher
}

// Node builds a matcher for nodes whose type satisfies pred.
func Node(pred Predicate, opts ...Option) *NodeMatcher {
	m := &NodeMatcher{pred: pred}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match implements Matcher. Each nested matcher is tried against the
// candidate children in document order and the first child it matches is
// used.
func (m *NodeMatcher) Match(n *syntax.Node) (Bindings, bool) {
	if n == nil || m.pred == nil || !m.pred(n.Type) {
		return nil, false
	}

	b := Bindings{}
	if m.key != "" {
		b[m.key] = n
	}
	if len(m.children) == 0 {
		return b, true
	}

	var candidates []*syntax.Node
	if m.hasField {
		if !n.HasField(m.field) {
			return nil, false
		}
		candidates = n.Field(m.field)
	} else {
		candidates = n.Children()
	}

	for _, child := range m.children {
		matched := false
		for _, c := range candidates {
			if cb, ok := child.Match(c); ok {
				for k, v := range cb {
					b[k] = v
				}
				matched = true
				break
			}
		}
		if !matched {
			return nil, false
		}
	}
	return b, true
}

// Keys implements Matcher.
func (m *NodeMatcher) Keys() [][]string {
	paths := [][]string{{}}
	if m.key != "" {
		paths = [][]string{{m.key}}
	}
	for _, child := range m.children {
		var next [][]string
		for _, p := range paths {
			for _, cp := range child.Keys() {
				joined := make([]string, 0, len(p)+len(cp))
				joined = append(joined, p...)
				next = append(next, append(joined, cp...))
			}
		}
		paths = next
	}
	return paths
}

type anyOf struct {
	alternatives []Matcher
}

// AnyOf matches when one of ms matches. Alternatives are tried in order and
// the first match wins.
func AnyOf(ms ...Matcher) Matcher {
	return anyOf{alternatives: ms}
}

func (a anyOf) Match(n *syntax.Node) (Bindings, bool) {
	for _, m := range a.alternatives {
		if b, ok := m.Match(n); ok {
			return b, true
		}
	}
	return nil, false
}

func (a anyOf) Keys() [][]string {
	var paths [][]string
	for _, m := range a.alternatives {
		paths = append(paths, m.Keys()...)
	}
	return paths
}
