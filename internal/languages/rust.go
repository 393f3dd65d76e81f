package languages

import (
	"github.com/mvp-joe/codefold/internal/decl"
	m "github.com/mvp-joe/codefold/internal/matcher"
)

// Rust returns the Rust pattern set.
func Rust() *Language {
	return &Language{
		Name:       "rust",
		Aliases:    []string{"rs", "Rust"},
		Extensions: []string{".rs"},
		Scopes: m.AnyOf(
			bodyScope(m.Exact("function_item"), "body", m.Exact("block"), "{"),
			bodyScope(m.Exact("struct_item"), "body", m.Exact("field_declaration_list"), "{"),
			bodyScope(m.Exact("enum_item"), "body", m.Exact("enum_variant_list"), "{"),
			bodyScope(m.OneOf("impl_item", "trait_item", "mod_item"), "body", m.Exact("declaration_list"), "{"),
			blockScope(m.Exact("if_expression"), "consequence", m.Exact("block"), "{"),
			blockScope(m.Exact("else_clause"), "children", m.Exact("block"), "{"),
			blockScope(m.OneOf("for_expression", "while_expression", "loop_expression"), "body", m.Exact("block"), "{"),
			blockScope(m.Exact("match_expression"), "body", m.Exact("match_block"), "{"),
		),
		Declarations: m.AnyOf(
			named(m.Exact("function_item"), "name", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
			named(m.OneOf("struct_item", "enum_item", "trait_item", "type_item"), "name", m.Exact("type_identifier"), decl.KeyType, decl.KeyIdentifier),
			named(m.OneOf("const_item", "static_item"), "name", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
			named(m.Exact("let_declaration"), "pattern", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
			named(m.Exact("macro_definition"), "name", m.Exact("identifier"), decl.KeyType, decl.KeyIdentifier),
		),
		Classify: func(tag string) (decl.Kind, bool) {
			switch tag {
			case "function_item":
				return decl.Function, true
			case "struct_item":
				return decl.Struct, true
			case "enum_item", "trait_item", "type_item":
				return decl.Type, true
			case "const_item", "static_item", "let_declaration":
				return decl.Variable, true
			case "macro_definition":
				return decl.Preproc, true
			}
			return 0, false
		},
	}
}
