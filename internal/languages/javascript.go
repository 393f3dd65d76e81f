package languages

import (
	"github.com/mvp-joe/codefold/internal/decl"
	m "github.com/mvp-joe/codefold/internal/matcher"
	"github.com/mvp-joe/codefold/internal/scope"
)

// JavaScript returns the JavaScript pattern set.
func JavaScript() *Language {
	return &Language{
		Name:         "javascript",
		Aliases:      []string{"js", "JavaScript"},
		Extensions:   []string{".js", ".mjs", ".cjs", ".jsx"},
		Scopes:       m.AnyOf(jsScopes()...),
		Declarations: m.AnyOf(jsDeclarations()...),
		Classify:     classifyJS,
	}
}

// TypeScript returns the TypeScript pattern set: the JavaScript one plus
// interfaces, enums and type aliases.
func TypeScript() *Language {
	scopes := append(jsScopes(),
		bodyScope(m.Exact("interface_declaration"), "body", m.Exact("interface_body"), "{"),
		bodyScope(m.Exact("enum_declaration"), "body", m.Exact("enum_body"), "{"),
	)
	decls := append(jsDeclarations(),
		named(m.OneOf("interface_declaration", "type_alias_declaration", "enum_declaration"),
			"name", m.Contains("identifier"), decl.KeyType, decl.KeyIdentifier),
	)
	return &Language{
		Name:         "typescript",
		Aliases:      []string{"ts", "TypeScript"},
		Extensions:   []string{".ts", ".mts", ".cts"},
		Scopes:       m.AnyOf(scopes...),
		Declarations: m.AnyOf(decls...),
		Classify:     classifyJS,
	}
}

func jsScopes() []m.Matcher {
	block := m.Exact("statement_block")
	return []m.Matcher{
		bodyScope(m.OneOf("class_declaration", "abstract_class_declaration", "class"), "body", m.Exact("class_body"), "{"),
		bodyScope(m.OneOf("method_definition", "function_declaration", "generator_function_declaration",
			"function_expression", "function", "generator_function"), "body", block, "{"),
		// x => { ... } folds after the brace, x => expr after the arrow.
		bodyScope(m.Exact("arrow_function"), "body", block, "{"),
		m.Node(m.Exact("arrow_function"), m.Capture(scope.KeyScope), m.InField("children"),
			m.With(opening("=>"))),
		blockScope(m.Exact("if_statement"), "consequence", block, "{"),
		blockScope(m.Exact("else_clause"), "children", block, "{"),
		blockScope(m.OneOf("for_statement", "for_in_statement", "while_statement", "do_statement",
			"try_statement", "catch_clause", "finally_clause"), "body", block, "{"),
		blockScope(m.Exact("switch_statement"), "body", m.Exact("switch_body"), "{"),
	}
}

func jsDeclarations() []m.Matcher {
	return []m.Matcher{
		named(m.OneOf("function_declaration", "generator_function_declaration"),
			"name", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
		named(m.OneOf("class_declaration", "abstract_class_declaration"),
			"name", m.Contains("identifier"), decl.KeyType, decl.KeyIdentifier),
		named(m.Exact("variable_declarator"), "name", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
		named(m.Exact("method_definition"), "name", m.Contains("property_identifier"), decl.KeyType, decl.KeyIdentifier),
	}
}

func classifyJS(tag string) (decl.Kind, bool) {
	switch tag {
	case "function_declaration", "generator_function_declaration", "method_definition":
		return decl.Function, true
	case "class_declaration", "abstract_class_declaration",
		"interface_declaration", "type_alias_declaration", "enum_declaration":
		return decl.Type, true
	case "variable_declarator":
		return decl.Variable, true
	}
	return 0, false
}
