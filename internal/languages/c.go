package languages

import (
	"strings"

	"github.com/mvp-joe/codefold/internal/decl"
	m "github.com/mvp-joe/codefold/internal/matcher"
)

// C returns the C pattern set.
func C() *Language {
	return &Language{
		Name:         "c",
		Aliases:      []string{"C"},
		Extensions:   []string{".c", ".h"},
		Scopes:       cScopes(),
		Declarations: cDeclarations(),
		Classify:     classifyC,
	}
}

func cScopes() m.Matcher {
	block := m.Exact("compound_statement")
	return m.AnyOf(
		bodyScope(m.Exact("function_definition"), "body", block, "{"),
		bodyScope(m.OneOf("struct_specifier", "union_specifier"), "body", m.Exact("field_declaration_list"), "{"),
		bodyScope(m.Exact("enum_specifier"), "body", m.Exact("enumerator_list"), "{"),
		blockScope(m.Exact("if_statement"), "consequence", block, "{"),
		blockScope(m.Exact("else_clause"), "children", block, "{"),
		blockScope(m.OneOf("for_statement", "while_statement", "do_statement", "switch_statement"), "body", block, "{"),
	)
}

func cDeclarations() m.Matcher {
	identifier := func() m.Matcher {
		return m.Node(m.Contains("identifier"), m.Capture(decl.KeyIdentifier))
	}
	return m.AnyOf(
		// int a = 5; struct fields; parameters
		m.Node(m.Contains("declaration"), m.Capture(decl.KeyType), m.InField("declarator"),
			m.With(m.AnyOf(
				identifier(),
				m.Node(m.Contains("declarator"), m.With(identifier())),
			))),
		m.Node(m.Exact("function_definition"), m.Capture(decl.KeyType), m.InField("declarator"),
			m.With(m.Node(m.Contains("declarator"), m.InField("declarator"), m.With(identifier())))),
		named(m.Exact("struct_specifier"), "name", m.Exact("type_identifier"), decl.KeyType, decl.KeyIdentifier),
		named(m.Exact("type_definition"), "declarator", m.Exact("type_identifier"), decl.KeyType, decl.KeyIdentifier),
		named(m.OneOf("preproc_def", "preproc_function_def"), "name", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
	)
}

func classifyC(tag string) (decl.Kind, bool) {
	switch {
	case strings.Contains(tag, "declaration"):
		return decl.Variable, true
	case tag == "function_definition":
		return decl.Function, true
	case tag == "struct_specifier":
		return decl.Struct, true
	case tag == "type_definition":
		return decl.Type, true
	case tag == "preproc_def", tag == "preproc_function_def":
		return decl.Preproc, true
	}
	return 0, false
}
