package languages

import (
	"github.com/mvp-joe/codefold/internal/decl"
	m "github.com/mvp-joe/codefold/internal/matcher"
	"github.com/mvp-joe/codefold/internal/scope"
)

// Python returns the Python pattern set. A block folds after the colon
// that opens it.
func Python() *Language {
	colonScope := func(tags ...string) m.Matcher {
		return m.Node(m.OneOf(tags...), m.Capture(scope.KeyScope), m.InField("children"),
			m.With(opening(":")))
	}
	return &Language{
		Name:       "python",
		Aliases:    []string{"py", "Python"},
		Extensions: []string{".py", ".pyi"},
		Scopes: m.AnyOf(
			colonScope("function_definition", "class_definition"),
			colonScope("if_statement", "for_statement", "while_statement", "with_statement", "try_statement"),
		),
		Declarations: m.AnyOf(
			named(m.OneOf("function_definition", "class_definition"), "name", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
			named(m.Exact("assignment"), "left", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
		),
		Classify: func(tag string) (decl.Kind, bool) {
			switch tag {
			case "function_definition":
				return decl.Function, true
			case "class_definition":
				return decl.Type, true
			case "assignment":
				return decl.Variable, true
			}
			return 0, false
		},
	}
}
