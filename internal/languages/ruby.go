package languages

import (
	"github.com/mvp-joe/codefold/internal/decl"
	m "github.com/mvp-joe/codefold/internal/matcher"
	"github.com/mvp-joe/codefold/internal/scope"
)

// Ruby returns the Ruby pattern set. Ruby bodies have no opening token, so a
// method folds after its parameter list, or its name when it has none, and a
// class after its superclass or name.
func Ruby() *Language {
	after := func(tags m.Predicate, field string) m.Matcher {
		return m.Node(tags, m.Capture(scope.KeyScope), m.InField(field),
			m.With(m.Node(m.Contains(""), m.Capture(scope.KeyPrefix))))
	}
	return &Language{
		Name:       "ruby",
		Aliases:    []string{"rb", "Ruby"},
		Extensions: []string{".rb"},
		Scopes: m.AnyOf(
			after(m.OneOf("method", "singleton_method"), "parameters"),
			after(m.OneOf("method", "singleton_method"), "name"),
			after(m.Exact("class"), "superclass"),
			after(m.OneOf("class", "module"), "name"),
		),
		Declarations: m.AnyOf(
			named(m.OneOf("method", "singleton_method"), "name", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
			named(m.OneOf("class", "module"), "name", m.Exact("constant"), decl.KeyType, decl.KeyIdentifier),
			named(m.Exact("assignment"), "left", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
		),
		Classify: func(tag string) (decl.Kind, bool) {
			switch tag {
			case "method", "singleton_method":
				return decl.Function, true
			case "class", "module":
				return decl.Type, true
			case "assignment":
				return decl.Variable, true
			}
			return 0, false
		},
	}
}
