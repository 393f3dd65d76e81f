package plugin

import (
	"sync"

	"github.com/mvp-joe/codefold/internal/tokens"
)

// DefaultMinLength is the identifier length above which variables start out
// minified.
const DefaultMinLength = 5

// Action labels offered by Minification.
const (
	LabelShowFull = "Show full"
	LabelMinify   = "Minify"
)

// keep is how many leading runes of a minified identifier stay visible.
const keep = 3

// Minification abbreviates long variable names. Every occurrence of the same
// identifier shares one minified state, so toggling one occurrence toggles
// all of them.
type Minification struct {
	minLength int

	mu       sync.Mutex
	minified map[string]bool
}

// NewMinification registers the variables of lines. minLength <= 0 selects
// DefaultMinLength.
func NewMinification(lines []tokens.Line, minLength int) *Minification {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	m := &Minification{minLength: minLength, minified: map[string]bool{}}
	m.Register(lines)
	return m
}

// Register adds the variable tokens of lines that are longer than the
// minimum length. Newly seen identifiers start minified; known ones keep
// their state.
func (m *Minification) Register(lines []tokens.Line) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, line := range lines {
		for _, tok := range line.Tokens {
			if !m.eligible(tok) {
				continue
			}
			if _, ok := m.minified[tok.Value]; !ok {
				m.minified[tok.Value] = true
			}
		}
	}
}

func (m *Minification) eligible(tok tokens.Token) bool {
	return tok.Kind == tokens.KindVariable && len([]rune(tok.Value)) > m.minLength
}

// Minified reports whether identifier is currently shown abbreviated.
func (m *Minification) Minified(identifier string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.minified[identifier]
}

// Toggle flips the state of identifier. Unknown identifiers are ignored.
func (m *Minification) Toggle(identifier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.minified[identifier]; ok {
		m.minified[identifier] = !state
	}
}

// SetAll minifies or expands every registered identifier.
func (m *Minification) SetAll(minified bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.minified {
		m.minified[id] = minified
	}
}

// Display returns the text to render for tok: the first runes followed by
// an ellipsis while minified, the full value otherwise.
func (m *Minification) Display(tok tokens.Token) string {
	if tok.Kind != tokens.KindVariable || !m.Minified(tok.Value) {
		return tok.Value
	}
	runes := []rune(tok.Value)
	if len(runes) <= keep {
		return tok.Value
	}
	return string(runes[:keep]) + "…"
}

// LineAction implements Plugin. Minification has no line actions.
func (m *Minification) LineAction(Context) *Action { return nil }

// TokenAction implements Plugin.
func (m *Minification) TokenAction(c Context) *Action {
	tok, ok := c.Current()
	if !ok || tok.Kind != tokens.KindVariable {
		return nil
	}

	m.mu.Lock()
	state, known := m.minified[tok.Value]
	m.mu.Unlock()
	if !known {
		return nil
	}

	label := LabelMinify
	if state {
		label = LabelShowFull
	}
	return &Action{
		Label: label,
		Run:   func() { m.Toggle(tok.Value) },
	}
}
