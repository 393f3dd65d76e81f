package languages

import (
	"github.com/mvp-joe/codefold/internal/decl"
	m "github.com/mvp-joe/codefold/internal/matcher"
)

// Java returns the Java pattern set.
func Java() *Language {
	return &Language{
		Name:       "java",
		Aliases:    []string{"Java"},
		Extensions: []string{".java"},
		Scopes: m.AnyOf(
			bodyScope(m.Exact("class_declaration"), "body", m.Exact("class_body"), "{"),
			bodyScope(m.Exact("interface_declaration"), "body", m.Exact("interface_body"), "{"),
			bodyScope(m.Exact("enum_declaration"), "body", m.Exact("enum_body"), "{"),
			bodyScope(m.Exact("method_declaration"), "body", m.Exact("block"), "{"),
			bodyScope(m.Exact("constructor_declaration"), "body", m.Exact("constructor_body"), "{"),
			blockScope(m.Exact("if_statement"), "consequence", m.Exact("block"), "{"),
			bareBlock(m.Exact("if_statement"), "alternative", m.Exact("block"), "{"),
			blockScope(m.OneOf("for_statement", "enhanced_for_statement", "while_statement", "do_statement",
				"try_statement", "try_with_resources_statement", "catch_clause", "synchronized_statement"), "body", m.Exact("block"), "{"),
			blockScope(m.Exact("finally_clause"), "children", m.Exact("block"), "{"),
			blockScope(m.Exact("switch_expression"), "body", m.Exact("switch_block"), "{"),
		),
		Declarations: m.AnyOf(
			named(m.OneOf("class_declaration", "interface_declaration", "enum_declaration", "record_declaration"),
				"name", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
			named(m.OneOf("method_declaration", "constructor_declaration"), "name", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
			named(m.Exact("variable_declarator"), "name", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
		),
		Classify: func(tag string) (decl.Kind, bool) {
			switch tag {
			case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
				return decl.Type, true
			case "method_declaration", "constructor_declaration":
				return decl.Function, true
			case "variable_declarator":
				return decl.Variable, true
			}
			return 0, false
		},
	}
}
