package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mvp-joe/codefold/internal/analysis"
	"github.com/mvp-joe/codefold/internal/plugin"
	"github.com/mvp-joe/codefold/internal/scope"
	"github.com/mvp-joe/codefold/internal/syntax"
	"github.com/mvp-joe/codefold/internal/tokens"
)

func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

// writeJSONLine writes v as a single line, for streamed output.
func writeJSONLine(w io.Writer, v any) error {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

// header prints the per-file title line of the text formats.
func header(w io.Writer, name string, res *analysis.Result) {
	lang := res.Language
	if lang == "" {
		lang = "plain text"
	}
	suffix := ""
	if res.Degraded {
		suffix = ", degraded"
	}
	fmt.Fprintf(w, "%s (%s%s)\n", name, lang, suffix)
}

// sourceLines recovers the file's lines from its token lines.
func sourceLines(res *analysis.Result) []string {
	out := make([]string, len(res.Lines))
	for i, l := range res.Lines {
		out[i] = l.Text()
	}
	return out
}

// prefixText is the introducer of s on a single line, trimmed.
func prefixText(lines []string, s scope.Scope) string {
	text, err := tokens.SpanText(lines, s.Prefix())
	if err != nil {
		return ""
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + " …"
	}
	return strings.TrimSpace(text)
}

// writeScopeForest renders scopes nested by containment with 1-based line
// ranges.
func writeScopeForest(w io.Writer, res *analysis.Result) {
	lines := sourceLines(res)
	var walk func(folds []*scope.Fold, depth int)
	walk = func(folds []*scope.Fold, depth int) {
		for _, f := range folds {
			fmt.Fprintf(w, "%s%d-%d  %s\n", strings.Repeat("  ", depth+1),
				f.Scope.PrefixStart.Line+1, f.Scope.End.Line+1, prefixText(lines, f.Scope))
			walk(f.Children, depth+1)
		}
	}
	walk(scope.Nest(res.Scopes), 0)
}

func writeDeclarations(w io.Writer, res *analysis.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range res.Declarations {
		fmt.Fprintf(tw, "  %s\t%s\t%d:%d\n", d.Kind, d.Identifier, d.Span.Start.Line+1, d.Span.Start.Char+1)
	}
	return tw.Flush()
}

// writeTokenLines prints the lines back as text. Variables go through
// minify when it is non-nil.
func writeTokenLines(w io.Writer, lines []tokens.Line, plugins *plugin.Registry) {
	for i, line := range lines {
		if i > 0 {
			fmt.Fprintln(w)
		}
		for _, tok := range line.Tokens {
			if plugins != nil {
				fmt.Fprint(w, plugins.Display(tok))
				continue
			}
			fmt.Fprint(w, tok.Value)
		}
	}
	fmt.Fprintln(w)
}

// writeTokenActions lists the actions plugins offer, one row per line or
// token with 1-based positions. Token rows carry the token's column.
func writeTokenActions(w io.Writer, plugins *plugin.Registry, path string, lines []tokens.Line) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, line := range lines {
		c := plugin.Context{Path: path, Lines: lines, Line: i}
		for _, a := range plugins.LineActions(c) {
			fmt.Fprintf(tw, "%d\t%s\t\n", i+1, a.Label)
		}
		col := 0
		for j, tok := range line.Tokens {
			c.Token = j
			for _, a := range plugins.TokenActions(c) {
				fmt.Fprintf(tw, "%d:%d\t%s\t%q\n", i+1, col+1, a.Label, tok.Value)
			}
			col += len([]rune(tok.Value))
		}
	}
	return tw.Flush()
}

// expandIdentifiers runs the show-full action on the first occurrence of each
// identifier. Identifiers that are not minified are left alone.
func expandIdentifiers(plugins *plugin.Registry, path string, lines []tokens.Line, identifiers []string) {
	pending := map[string]bool{}
	for _, id := range identifiers {
		pending[id] = true
	}
	for i, line := range lines {
		for j, tok := range line.Tokens {
			if !pending[tok.Value] {
				continue
			}
			for _, a := range plugins.TokenActions(plugin.Context{Path: path, Lines: lines, Line: i, Token: j}) {
				if a.Label == plugin.LabelShowFull {
					a.Run()
				}
			}
			delete(pending, tok.Value)
		}
	}
}

// writeTokenKinds prints one token per row with its kind, skipping
// whitespace.
func writeTokenKinds(w io.Writer, lines []tokens.Line) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, line := range lines {
		for _, tok := range line.Tokens {
			if tok.Kind == tokens.KindSpace {
				continue
			}
			fmt.Fprintf(tw, "%d\t%s\t%q\n", i+1, tok.Kind, tok.Value)
		}
	}
	return tw.Flush()
}

// writeTree prints an indented outline of the tree. Named fields other than
// the unnamed children slot prefix their nodes.
func writeTree(w io.Writer, root *syntax.Node) {
	var walk func(n *syntax.Node, field string, depth int)
	walk = func(n *syntax.Node, field string, depth int) {
		label := n.Type
		if field != "" {
			label = field + ": " + label
		}
		fmt.Fprintf(w, "%s%s [%s]", strings.Repeat("  ", depth), label, n.Span)
		if n.Text != "" {
			fmt.Fprintf(w, " %q", n.Text)
		}
		fmt.Fprintln(w)
		for _, f := range n.Fields {
			name := f.Name
			if name == syntax.ChildrenField {
				name = ""
			}
			for _, child := range f.Nodes {
				walk(child, name, depth+1)
			}
		}
	}
	walk(root, "", 0)
}
