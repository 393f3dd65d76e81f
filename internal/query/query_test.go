package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codefold/internal/matcher"
	"github.com/mvp-joe/codefold/internal/syntax"
)

const nestedJSON = `{
  "type": "class_declaration", "start": [0, 0], "end": [4, 1],
  "name": [{"type": "identifier", "start": [0, 6], "end": [0, 10], "text": "User"}],
  "body": [{
    "type": "class_body", "start": [0, 11], "end": [4, 1],
    "children": [{
      "type": "method_definition", "start": [1, 2], "end": [3, 3],
      "name": [{"type": "property_identifier", "start": [1, 2], "end": [1, 7], "text": "greet"}],
      "body": [{
        "type": "statement_block", "start": [1, 10], "end": [3, 3],
        "children": [{
          "type": "function_declaration", "start": [2, 4], "end": [2, 20],
          "name": [{"type": "identifier", "start": [2, 13], "end": [2, 16], "text": "log"}]
        }]
      }]
    }]
  }]
}`

func named() Query[string] {
	return Query[string]{
		Matcher: matcher.Node(matcher.OneOf("class_declaration", "method_definition", "function_declaration"),
			matcher.InField("name"),
			matcher.With(matcher.Node(matcher.Contains("identifier"), matcher.Capture("name")))),
		Extract: func(b matcher.Bindings) (string, bool) {
			return b["name"].Text, true
		},
	}
}

func TestRun_PreOrderWithoutPruning(t *testing.T) {
	t.Parallel()

	root, err := syntax.FromJSON([]byte(nestedJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"User", "greet", "log"}, Run(root, named()))
}

func TestRun_ExtractDrops(t *testing.T) {
	t.Parallel()

	root, err := syntax.FromJSON([]byte(nestedJSON))
	require.NoError(t, err)

	q := named()
	q.Extract = func(b matcher.Bindings) (string, bool) {
		name := b["name"].Text
		return name, name != "greet"
	}
	assert.Equal(t, []string{"User", "log"}, Run(root, q))
}

func TestRun_NilRoot(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Run(nil, named()))
}
