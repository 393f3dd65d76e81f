// Package plugin offers per-line and per-token actions over converted token
// lines. Plugins only read tokens.Line output; they never touch the tree.
package plugin

import (
	"sync"

	"github.com/mvp-joe/codefold/internal/tokens"
)

// Context identifies the line or token an action is requested for.
type Context struct {
	Path  string
	Lines []tokens.Line
	Line  int // 0-based line index
	Token int // index into Lines[Line].Tokens; -1 for line actions
}

// Current returns the token the context points at.
func (c Context) Current() (tokens.Token, bool) {
	if c.Line < 0 || c.Line >= len(c.Lines) {
		return tokens.Token{}, false
	}
	toks := c.Lines[c.Line].Tokens
	if c.Token < 0 || c.Token >= len(toks) {
		return tokens.Token{}, false
	}
	return toks[c.Token], true
}

// Action is a labelled operation a plugin offers.
type Action struct {
	Label string
	Run   func()
}

// Plugin produces actions for lines and tokens. Either method returns nil
// when it has nothing to offer.
type Plugin interface {
	LineAction(c Context) *Action
	TokenAction(c Context) *Action
}

// Displayer is implemented by plugins that change how a token is rendered.
type Displayer interface {
	Display(tok tokens.Token) string
}

// Registry holds plugins in registration order.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
}

// NewRegistry creates a registry holding plugins.
func NewRegistry(plugins ...Plugin) *Registry {
	return &Registry{plugins: plugins}
}

// Register appends p.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins = append(r.plugins, p)
}

// LineActions collects every plugin's action for line c.Line.
func (r *Registry) LineActions(c Context) []Action {
	c.Token = -1
	return r.collect(func(p Plugin) *Action { return p.LineAction(c) })
}

// TokenActions collects every plugin's action for the token at c.
func (r *Registry) TokenActions(c Context) []Action {
	return r.collect(func(p Plugin) *Action { return p.TokenAction(c) })
}

// Display renders tok through the first registered Displayer, or as its
// value when there is none.
func (r *Registry) Display(tok tokens.Token) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.plugins {
		if d, ok := p.(Displayer); ok {
			return d.Display(tok)
		}
	}
	return tok.Value
}

func (r *Registry) collect(fn func(Plugin) *Action) []Action {
	r.mu.RLock()
	plugins := r.plugins
	r.mu.RUnlock()

	actions := []Action{}
	for _, p := range plugins {
		if a := fn(p); a != nil {
			actions = append(actions, *a)
		}
	}
	return actions
}
