package languages

import (
	m "github.com/mvp-joe/codefold/internal/matcher"
	"github.com/mvp-joe/codefold/internal/scope"
)

// opening matches an anonymous token by its text and captures it as the
// scope prefix.
func opening(text string) m.Matcher {
	return m.Node(m.Exact(text), m.Capture(scope.KeyPrefix))
}

// bodyScope matches a construct whose body slot holds a node that opens with
// brace, as in `function f() {` or `struct S {`.
func bodyScope(construct m.Predicate, bodyField string, body m.Predicate, brace string) m.Matcher {
	return m.Node(construct, m.Capture(scope.KeyScope), m.InField(bodyField),
		m.With(m.Node(body, m.InField("children"), m.With(opening(brace)))))
}

// blockScope matches a statement whose block in field opens with brace, as
// in `if (x) {`. The scope ends with that block, so an if statement's fold
// stops before its else branch.
func blockScope(construct m.Predicate, field string, block m.Predicate, brace string) m.Matcher {
	return m.Node(construct, m.Capture(scope.KeyScope), m.InField(field),
		m.With(m.Node(block, m.Capture(scope.KeyEnd), m.InField("children"), m.With(opening(brace)))))
}

// bareBlock folds a block reached through field of construct from its own
// opening brace. It serves grammars whose else branch has no clause node.
func bareBlock(construct m.Predicate, field string, block m.Predicate, brace string) m.Matcher {
	return m.Node(construct, m.InField(field),
		m.With(m.Node(block, m.Capture(scope.KeyScope), m.InField("children"), m.With(opening(brace)))))
}

// delimited matches a construct whose own unnamed children start with brace,
// as in a JSON object.
func delimited(construct m.Predicate, brace string) m.Matcher {
	return m.Node(construct, m.Capture(scope.KeyScope), m.InField("children"),
		m.With(opening(brace)))
}

// named matches a declaration whose name sits in the given field.
func named(construct m.Predicate, field string, ident m.Predicate, key, identKey string) m.Matcher {
	return m.Node(construct, m.Capture(key), m.InField(field),
		m.With(m.Node(ident, m.Capture(identKey))))
}
