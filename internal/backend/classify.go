package backend

import (
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codefold/internal/tokens"
)

var literalKinds = map[string]bool{
	"true": true, "false": true, "null": true, "nil": true, "none": true,
	"undefined": true, "boolean": true, "boolean_literal": true, "null_literal": true,
}

var typeKinds = map[string]bool{
	"type_identifier": true, "primitive_type": true, "predefined_type": true,
	"builtin_type": true, "sized_type_specifier": true, "integral_type": true,
	"floating_point_type": true, "void_type": true, "constant": true,
}

var propertyKinds = map[string]bool{
	"property_identifier": true, "field_identifier": true,
	"shorthand_property_identifier": true, "shorthand_field_identifier": true,
}

// Fields under which an identifier names a function.
var functionFields = map[string]bool{
	"function": true,
}

var functionParents = map[string]bool{
	"function_declaration": true, "function_definition": true, "function_item": true,
	"method_definition": true, "method_declaration": true, "method": true,
	"generator_function_declaration": true,
}

const punctuation = "{}()[];,.:"

// classifyBranch reports inner nodes that are emitted as a single token.
func classifyBranch(n *sitter.Node) (tokens.Kind, bool) {
	if !n.IsNamed() || n.ChildCount() == 0 {
		return "", false
	}
	kind := n.Kind()
	switch {
	case strings.Contains(kind, "comment"):
		return tokens.KindComment, true
	case kind == "string" || kind == "string_literal" || kind == "raw_string_literal" ||
		kind == "char_literal" || kind == "character_literal" || kind == "template_string" ||
		kind == "quoted_attribute_value" || kind == "encapsed_string":
		return tokens.KindString, true
	}
	return "", false
}

func classifyLeaf(n, parent *sitter.Node, field, language string) tokens.Kind {
	kind := n.Kind()
	if !n.IsNamed() {
		return classifyAnonymous(kind, language)
	}

	switch {
	case strings.Contains(kind, "comment"):
		return tokens.KindComment
	case strings.Contains(kind, "string") || kind == "attribute_value" || kind == "escape_sequence":
		return tokens.KindString
	case strings.Contains(kind, "number") || strings.Contains(kind, "integer") || strings.Contains(kind, "float"):
		return tokens.KindNumber
	case literalKinds[kind]:
		return tokens.KindLiteral
	case typeKinds[kind]:
		return tokens.KindType
	case propertyKinds[kind]:
		return tokens.KindProperty
	case kind == "tag_name":
		return tokens.KindTag
	case kind == "attribute_name":
		return tokens.KindAttribute
	case kind == "text" || kind == "raw_text":
		return tokens.KindPlain
	case kind == "identifier" || kind == "name":
		if functionFields[field] || (field == "name" && parent != nil && functionParents[parent.Kind()]) {
			return tokens.KindFunction
		}
		return tokens.KindVariable
	case strings.Contains(kind, "identifier"):
		return tokens.KindVariable
	}
	return tokens.KindPlain
}

func classifyAnonymous(text, language string) tokens.Kind {
	if language == "html" {
		return tokens.KindPunctuation
	}
	if isWord(text) {
		return tokens.KindKeyword
	}
	if len(text) == 1 && strings.Contains(punctuation, text) {
		return tokens.KindPunctuation
	}
	return tokens.KindOperator
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
