// Package decl extracts named declarations from a syntax tree.
package decl

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/codefold/internal/matcher"
	"github.com/mvp-joe/codefold/internal/query"
	"github.com/mvp-joe/codefold/internal/syntax"
	"github.com/mvp-joe/codefold/internal/tokens"
)

// Capture keys declaration patterns bind. The node under KeyType decides the
// declaration kind, the node under KeyIdentifier gives its name and span.
const (
	KeyType       = "type"
	KeyIdentifier = "identifier"
)

// Kind classifies a declaration.
type Kind int

const (
	Variable Kind = iota
	Function
	Struct
	Type
	Preproc
)

var kindNames = [...]string{
	Variable: "variable",
	Function: "function",
	Struct:   "struct",
	Type:     "type",
	Preproc:  "preproc",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown declaration kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown declaration kind %q", text)
}

// Declaration is a named symbol. Span is the span of its identifier.
type Declaration struct {
	Kind       Kind        `json:"kind"`
	Span       syntax.Span `json:"span"`
	Identifier string      `json:"identifier"`
}

// Key identifies a declaration. Declarations with the same name but
// different spans are different declarations.
type Key struct {
	Kind Kind
	Span syntax.Span
}

// Key returns d's identity.
func (d Declaration) Key() Key {
	return Key{Kind: d.Kind, Span: d.Span}
}

// Classifier maps the type tag of the KeyType capture to a kind. Returning
// false drops the match.
type Classifier func(typeTag string) (Kind, bool)

// Extract runs m over the tree and returns the declarations it matches, in
// tree order, without repeating a Key. Identifier text is read from source; when the span cannot be
// cut from source the node's own text is used instead.
func Extract(root *syntax.Node, source string, m matcher.Matcher, classify Classifier) []Declaration {
	if root == nil || m == nil || classify == nil {
		return []Declaration{}
	}
	lines := strings.Split(source, "\n")

	found := query.Run(root, query.Query[Declaration]{
		Matcher: m,
		Extract: func(b matcher.Bindings) (Declaration, bool) {
			typ, ident := b[KeyType], b[KeyIdentifier]
			if typ == nil || ident == nil {
				return Declaration{}, false
			}
			kind, ok := classify(typ.Type)
			if !ok {
				return Declaration{}, false
			}
			name, err := tokens.SpanText(lines, ident.Span)
			if err != nil || name == "" {
				name = ident.Text
			}
			if name == "" {
				return Declaration{}, false
			}
			return Declaration{Kind: kind, Span: ident.Span, Identifier: name}, true
		},
	})
	return Dedupe(found)
}

// Dedupe drops declarations whose Key was already seen, keeping the first.
func Dedupe(decls []Declaration) []Declaration {
	seen := make(map[Key]struct{}, len(decls))
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		if _, ok := seen[d.Key()]; ok {
			continue
		}
		seen[d.Key()] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Named returns the declarations called name.
func Named(decls []Declaration, name string) []Declaration {
	out := []Declaration{}
	for _, d := range decls {
		if d.Identifier == name {
			out = append(out, d)
		}
	}
	return out
}
