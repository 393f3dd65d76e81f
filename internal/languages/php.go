package languages

import (
	"github.com/mvp-joe/codefold/internal/decl"
	m "github.com/mvp-joe/codefold/internal/matcher"
)

// PHP returns the PHP pattern set.
func PHP() *Language {
	return &Language{
		Name:       "php",
		Aliases:    []string{"PHP"},
		Extensions: []string{".php"},
		Scopes: m.AnyOf(
			bodyScope(m.OneOf("function_definition", "method_declaration"), "body", m.Exact("compound_statement"), "{"),
			bodyScope(m.OneOf("class_declaration", "interface_declaration", "trait_declaration"), "body", m.Exact("declaration_list"), "{"),
			blockScope(m.OneOf("if_statement", "else_if_clause", "else_clause", "for_statement", "foreach_statement",
				"while_statement", "do_statement", "try_statement", "catch_clause", "finally_clause"), "body", m.Exact("compound_statement"), "{"),
			blockScope(m.Exact("switch_statement"), "body", m.Exact("switch_block"), "{"),
		),
		Declarations: m.AnyOf(
			named(m.OneOf("function_definition", "method_declaration"), "name", m.Exact("name"), decl.KeyType, decl.KeyIdentifier),
			named(m.OneOf("class_declaration", "interface_declaration", "trait_declaration"), "name", m.Exact("name"), decl.KeyType, decl.KeyIdentifier),
		),
		Classify: func(tag string) (decl.Kind, bool) {
			switch tag {
			case "function_definition", "method_declaration":
				return decl.Function, true
			case "class_declaration", "interface_declaration", "trait_declaration":
				return decl.Type, true
			}
			return 0, false
		},
	}
}
