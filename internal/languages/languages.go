// Package languages holds the scope and declaration patterns of every
// supported language and picks a language for a file.
package languages

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/mvp-joe/codefold/internal/decl"
	"github.com/mvp-joe/codefold/internal/matcher"
	"github.com/mvp-joe/codefold/internal/scope"
	"github.com/mvp-joe/codefold/internal/syntax"
)

// Language is the pattern set of one grammar.
type Language struct {
	// Name is the registry tag and the tag the parse backends understand.
	Name string
	// Aliases are other tags Lookup accepts, such as enry language names.
	Aliases []string
	// Extensions are file extensions, with the dot, claimed by the language.
	Extensions []string

	// Scopes binds scope.KeyScope and scope.KeyPrefix.
	Scopes matcher.Matcher
	// Declarations binds decl.KeyType and decl.KeyIdentifier. Nil when the
	// language has no declarations.
	Declarations matcher.Matcher
	// Classify maps the KeyType node's type tag to a declaration kind.
	Classify decl.Classifier
}

// ExtractScopes returns the scopes of a tree of this language.
func (l *Language) ExtractScopes(root *syntax.Node) []scope.Scope {
	if l.Scopes == nil {
		return []scope.Scope{}
	}
	return scope.Extract(root, l.Scopes)
}

// ExtractDeclarations returns the declarations of a tree of this language.
func (l *Language) ExtractDeclarations(root *syntax.Node, source string) []decl.Declaration {
	if l.Declarations == nil || l.Classify == nil {
		return []decl.Declaration{}
	}
	return decl.Extract(root, source, l.Declarations, l.Classify)
}

func (l *Language) validate() error {
	if l.Name == "" {
		return fmt.Errorf("language without a name")
	}
	if l.Scopes != nil {
		if err := matcher.Validate(l.Scopes); err != nil {
			return fmt.Errorf("%s scopes: %w", l.Name, err)
		}
		if err := requireKeys(l.Scopes, scope.KeyScope, scope.KeyPrefix); err != nil {
			return fmt.Errorf("%s scopes: %w", l.Name, err)
		}
	}
	if l.Declarations != nil {
		if err := matcher.Validate(l.Declarations); err != nil {
			return fmt.Errorf("%s declarations: %w", l.Name, err)
		}
		if err := requireKeys(l.Declarations, decl.KeyType, decl.KeyIdentifier); err != nil {
			return fmt.Errorf("%s declarations: %w", l.Name, err)
		}
		if l.Classify == nil {
			return fmt.Errorf("%s declarations: no classifier", l.Name)
		}
	}
	return nil
}

func requireKeys(m matcher.Matcher, keys ...string) error {
	bound := map[string]bool{}
	for _, k := range matcher.Require(m) {
		bound[k] = true
	}
	for _, k := range keys {
		if !bound[k] {
			return fmt.Errorf("not every match binds %q", k)
		}
	}
	return nil
}

// Registry resolves language tags to pattern sets. It is read-only after
// construction.
type Registry struct {
	byTag map[string]*Language
	byExt map[string]*Language
	names []string
}

// NewRegistry returns a registry with every built-in language.
func NewRegistry() *Registry {
	r, err := New(C(), JavaScript(), TypeScript(), JSON(), HTML(),
		Python(), Rust(), Java(), PHP(), Ruby())
	if err != nil {
		panic(err)
	}
	return r
}

// New builds a registry from langs, validating every pattern.
func New(langs ...*Language) (*Registry, error) {
	r := &Registry{
		byTag: map[string]*Language{},
		byExt: map[string]*Language{},
	}
	for _, l := range langs {
		if err := l.validate(); err != nil {
			return nil, err
		}
		for _, tag := range append([]string{l.Name}, l.Aliases...) {
			key := strings.ToLower(tag)
			if prev, dup := r.byTag[key]; dup {
				if prev == l {
					continue
				}
				return nil, fmt.Errorf("language tag %q registered twice", tag)
			}
			r.byTag[key] = l
		}
		for _, ext := range l.Extensions {
			r.byExt[strings.ToLower(ext)] = l
		}
		r.names = append(r.names, l.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Lookup finds a language by tag or alias, ignoring case.
func (r *Registry) Lookup(tag string) (*Language, bool) {
	l, ok := r.byTag[strings.ToLower(strings.TrimSpace(tag))]
	return l, ok
}

// Names lists the registered languages in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Detect picks the registered language of a file. Content may be nil. The
// extension table is consulted first, then enry's detection over the name
// and content.
func (r *Registry) Detect(path string, content []byte) (*Language, bool) {
	if l, ok := r.byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return l, true
	}
	if name := Detect(path, content); name != "" {
		return r.Lookup(name)
	}
	return nil, false
}

// Detect returns enry's language name for a file, or "" when it cannot tell.
func Detect(path string, content []byte) string {
	if content == nil {
		if name, safe := enry.GetLanguageByExtension(path); safe {
			return name
		}
		return ""
	}
	return enry.GetLanguage(filepath.Base(path), content)
}
