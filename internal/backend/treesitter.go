package backend

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tsjson "github.com/tree-sitter/tree-sitter-json/bindings/go"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/codefold/internal/syntax"
	"github.com/mvp-joe/codefold/internal/tokens"
)

// TreeSitter parses in process. Grammars are loaded once; every Parse call
// uses its own parser, so one TreeSitter may be shared between goroutines.
type TreeSitter struct {
	grammars map[string]*sitter.Language
}

// NewTreeSitter creates a backend with every bundled grammar.
func NewTreeSitter() *TreeSitter {
	return &TreeSitter{
		grammars: map[string]*sitter.Language{
			"c":          sitter.NewLanguage(c.Language()),
			"html":       sitter.NewLanguage(html.Language()),
			"java":       sitter.NewLanguage(java.Language()),
			"javascript": sitter.NewLanguage(javascript.Language()),
			"json":       sitter.NewLanguage(tsjson.Language()),
			"php":        sitter.NewLanguage(php.LanguagePHP()),
			"python":     sitter.NewLanguage(python.Language()),
			"ruby":       sitter.NewLanguage(ruby.Language()),
			"rust":       sitter.NewLanguage(rust.Language()),
			"typescript": sitter.NewLanguage(typescript.LanguageTypescript()),
		},
	}
}

// Supports implements Backend.
func (b *TreeSitter) Supports(language string) bool {
	_, ok := b.grammars[strings.ToLower(language)]
	return ok
}

// Parse implements Backend. The context is only checked before parsing
// starts.
func (b *TreeSitter) Parse(ctx context.Context, language string, source []byte) (*Parsed, error) {
	lang := strings.ToLower(language)
	grammar, ok := b.grammars[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, language)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(grammar); err != nil {
		return nil, fmt.Errorf("%w: load %s grammar: %v", ErrBackend, lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: failed to parse %s source", ErrBackend, lang)
	}
	defer tree.Close()

	root := tree.RootNode()
	return &Parsed{
		Tree:   convertNode(root, source),
		Tokens: leafTokens(root, source, lang),
	}, nil
}

// convertNode copies a tree-sitter node into the wire shape: named fields
// become slots, unnamed children go to the children slot, anonymous tokens
// keep their literal text as type.
func convertNode(n *sitter.Node, source []byte) *syntax.Node {
	out := &syntax.Node{Type: n.Kind(), Span: nodeSpan(n)}
	if n.ChildCount() == 0 {
		out.Text = n.Utf8Text(source)
		return out
	}

	cursor := n.Walk()
	defer cursor.Close()

	if !cursor.GotoFirstChild() {
		return out
	}
	for {
		field := cursor.FieldName()
		if field == "" {
			field = syntax.ChildrenField
		}
		addToSlot(out, field, convertNode(cursor.Node(), source))
		if !cursor.GotoNextSibling() {
			break
		}
	}
	return out
}

func addToSlot(n *syntax.Node, name string, child *syntax.Node) {
	for i := range n.Fields {
		if n.Fields[i].Name == name {
			n.Fields[i].Nodes = append(n.Fields[i].Nodes, child)
			return
		}
	}
	n.Fields = append(n.Fields, syntax.Field{Name: name, Nodes: []*syntax.Node{child}})
}

func nodeSpan(n *sitter.Node) syntax.Span {
	start, end := n.StartPosition(), n.EndPosition()
	return syntax.Span{
		Start: syntax.Pos(int(start.Row), int(start.Column)),
		End:   syntax.Pos(int(end.Row), int(end.Column)),
	}
}

// leafTokens classifies the leaves of the tree, in source order. String
// literals are emitted whole rather than as their quote and content leaves.
func leafTokens(root *sitter.Node, source []byte, language string) []tokens.RawToken {
	var out []tokens.RawToken

	var walk func(n *sitter.Node, parent *sitter.Node, field string)
	walk = func(n *sitter.Node, parent *sitter.Node, field string) {
		if kind, whole := classifyBranch(n); whole {
			out = append(out, rawToken(n, kind))
			return
		}
		if n.ChildCount() == 0 {
			if n.StartByte() == n.EndByte() {
				return
			}
			out = append(out, rawToken(n, classifyLeaf(n, parent, field, language)))
			return
		}

		cursor := n.Walk()
		defer cursor.Close()
		if !cursor.GotoFirstChild() {
			return
		}
		for {
			walk(cursor.Node(), n, cursor.FieldName())
			if !cursor.GotoNextSibling() {
				break
			}
		}
	}
	walk(root, nil, "")
	return out
}

func rawToken(n *sitter.Node, kind tokens.Kind) tokens.RawToken {
	span := nodeSpan(n)
	return tokens.RawToken{Type: string(kind), Start: span.Start, End: span.End}
}
