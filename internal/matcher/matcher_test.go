package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codefold/internal/syntax"
)

// Test Plan for Matcher:
// - Predicates match by exact tag, substring and set membership
// - Nested matchers only look at direct children, of one field when given
// - A missing field fails the match
// - AnyOf returns the first listed alternative that matches
// - Nested bindings merge into the parent, last write wins
// - Validate rejects keys bound twice on one path, allows them across branches

const functionJSON = `{
  "type": "function_definition", "start": [0, 0], "end": [2, 1],
  "type_field": {"type": "primitive_type", "start": [0, 0], "end": [0, 3]},
  "declarator": [{
    "type": "function_declarator", "start": [0, 4], "end": [0, 10],
    "declarator": [{"type": "identifier", "start": [0, 4], "end": [0, 8]}],
    "parameters": [{"type": "parameter_list", "start": [0, 8], "end": [0, 10]}]
  }],
  "body": [{
    "type": "compound_statement", "start": [0, 11], "end": [2, 1],
    "children": [
      {"type": "{", "start": [0, 11], "end": [0, 12]},
      {"type": "}", "start": [2, 0], "end": [2, 1]}
    ]
  }]
}`

func parse(t *testing.T, payload string) *syntax.Node {
	t.Helper()
	root, err := syntax.FromJSON([]byte(payload))
	require.NoError(t, err)
	return root
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, Exact("identifier")("identifier"))
	assert.False(t, Exact("identifier")("type_identifier"))
	assert.True(t, Contains("declarator")("init_declarator"))
	assert.False(t, Contains("declarator")("declaration"))
	assert.True(t, OneOf("preproc_def", "preproc_function_def")("preproc_function_def"))
	assert.False(t, OneOf()("anything"))
}

func TestNode_CapturesNested(t *testing.T) {
	t.Parallel()

	root := parse(t, functionJSON)
	m := Node(Exact("function_definition"), Capture("type"),
		With(Node(Contains("declarator"),
			With(Node(Exact("identifier"), Capture("identifier"))))))

	b, ok := m.Match(root)
	require.True(t, ok)
	assert.Same(t, root, b["type"])
	require.Contains(t, b, "identifier")
	assert.Equal(t, syntax.Pos(0, 4), b["identifier"].Start())
	assert.Len(t, b, 2)
}

func TestNode_DirectChildrenOnly(t *testing.T) {
	t.Parallel()

	root := parse(t, functionJSON)
	m := Node(Exact("function_definition"), With(Node(Exact("identifier"))))

	_, ok := m.Match(root)
	assert.False(t, ok, "identifier is a grandchild")
}

func TestNode_InField(t *testing.T) {
	t.Parallel()

	root := parse(t, functionJSON)
	brace := Node(Exact("function_definition"), Capture("scope"), InField("body"),
		With(Node(Exact("compound_statement"), InField("children"),
			With(Node(Exact("{"), Capture("prefix"))))))

	b, ok := brace.Match(root)
	require.True(t, ok)
	assert.Equal(t, syntax.Pos(0, 12), b["prefix"].End())

	wrongField := Node(Exact("function_definition"), InField("declarator"),
		With(Node(Exact("compound_statement"))))
	_, ok = wrongField.Match(root)
	assert.False(t, ok)

	missing := Node(Exact("function_definition"), InField("nope"), With(Node(Contains(""))))
	_, ok = missing.Match(root)
	assert.False(t, ok)
}

func TestNode_NoChildrenMatchesLeaf(t *testing.T) {
	t.Parallel()

	root := parse(t, functionJSON)
	b, ok := Node(Exact("function_definition")).Match(root)
	require.True(t, ok)
	assert.NotNil(t, b)
	assert.Empty(t, b)

	_, ok = Node(Exact("function_definition")).Match(nil)
	assert.False(t, ok)
}

func TestAnyOf_FirstAlternativeWins(t *testing.T) {
	t.Parallel()

	root := parse(t, functionJSON)
	m := AnyOf(
		Node(Exact("nothing"), Capture("x")),
		Node(Contains("function"), Capture("first")),
		Node(Exact("function_definition"), Capture("second")),
	)

	b, ok := m.Match(root)
	require.True(t, ok)
	assert.Contains(t, b, "first")
	assert.NotContains(t, b, "second")

	_, ok = AnyOf().Match(root)
	assert.False(t, ok)
}

func TestNode_LastWriteWins(t *testing.T) {
	t.Parallel()

	root := parse(t, functionJSON)
	m := Node(Exact("function_definition"), Capture("k"),
		With(Node(Exact("function_declarator"), Capture("k"))))

	b, ok := m.Match(root)
	require.True(t, ok)
	assert.Equal(t, "function_declarator", b["k"].Type)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	ok := AnyOf(
		Node(Contains("declaration"), Capture("type"),
			With(AnyOf(
				Node(Contains("identifier"), Capture("identifier")),
				Node(Contains("declarator"), With(Node(Contains("identifier"), Capture("identifier")))),
			))),
		Node(Exact("struct_specifier"), Capture("type"),
			With(Node(Exact("type_identifier"), Capture("identifier")))),
	)
	assert.NoError(t, Validate(ok))
	assert.Equal(t, []string{"type", "identifier"}, Require(ok))

	dup := Node(Exact("a"), Capture("k"), With(Node(Exact("b"), Capture("k"))))
	assert.ErrorIs(t, Validate(dup), ErrDuplicateCapture)

	siblings := Node(Exact("a"), With(Node(Exact("b"), Capture("k")), Node(Exact("c"), Capture("k"))))
	assert.ErrorIs(t, Validate(siblings), ErrDuplicateCapture)

	assert.Error(t, Validate(nil))
}

func TestRequire_PartialCapture(t *testing.T) {
	t.Parallel()

	m := AnyOf(
		Node(Exact("a"), Capture("scope"), With(Node(Exact("{"), Capture("prefix")))),
		Node(Exact("b"), Capture("scope")),
	)
	assert.Equal(t, []string{"scope"}, Require(m))
}
