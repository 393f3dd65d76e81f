// Package analysis runs the parsing core over whole files: it asks a parse
// backend for a tree and a token stream, converts the tokens into lines and
// extracts scopes and declarations for the file's language.
//
// Malformed backend payloads never fail a file. The affected part degrades
// (plain lines, or no scopes and declarations) and a warning is logged.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/maypok86/otter"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mvp-joe/codefold/internal/backend"
	"github.com/mvp-joe/codefold/internal/decl"
	"github.com/mvp-joe/codefold/internal/languages"
	"github.com/mvp-joe/codefold/internal/logging"
	"github.com/mvp-joe/codefold/internal/scope"
	"github.com/mvp-joe/codefold/internal/syntax"
	"github.com/mvp-joe/codefold/internal/tokens"
)

// Result is the analysis of one file. Results may be shared between callers
// through the cache and must not be modified.
type Result struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"` // registry name, empty when unsupported

	Lines        []tokens.Line      `json:"lines"`
	Declarations []decl.Declaration `json:"declarations"`
	Scopes       []scope.Scope      `json:"scopes"`

	// Tree is nil when the language is unsupported or the tree payload was
	// malformed.
	Tree *syntax.Node `json:"-"`

	// Degraded is set when a backend payload did not decode.
	Degraded bool `json:"degraded,omitempty"`
}

// Options tune a Service. Zero values select the defaults noted per field.
type Options struct {
	TabWidth  int           // default tokens.DefaultTabWidth
	CacheSize int           // entries; zero disables the cache
	CacheTTL  time.Duration // zero keeps entries until evicted by size
	Timeout   time.Duration // per backend call; zero means none
	Jobs      int           // files analyzed in parallel by AnalyzeFiles, default 1
	Logger    *log.Logger   // default logging.Default()
}

// Service analyzes files. It is safe for concurrent use.
type Service struct {
	backend   backend.Backend
	registry  *languages.Registry
	converter tokens.Converter
	timeout   time.Duration
	jobs      int
	logger    *log.Logger

	cache    *otter.Cache[string, *Result]
	inflight singleflight.Group
}

// NewService creates a service on top of b. Languages are resolved through
// reg.
func NewService(b backend.Backend, reg *languages.Registry, opts Options) (*Service, error) {
	if b == nil {
		return nil, errors.New("analysis: nil backend")
	}
	if reg == nil {
		return nil, errors.New("analysis: nil language registry")
	}

	s := &Service{
		backend:   b,
		registry:  reg,
		converter: tokens.Converter{TabWidth: opts.TabWidth},
		timeout:   opts.Timeout,
		jobs:      max(opts.Jobs, 1),
		logger:    opts.Logger,
	}
	if s.converter.TabWidth <= 0 {
		s.converter.TabWidth = tokens.DefaultTabWidth
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}

	if opts.CacheSize > 0 {
		builder := otter.MustBuilder[string, *Result](opts.CacheSize)
		var (
			cache otter.Cache[string, *Result]
			err   error
		)
		if opts.CacheTTL > 0 {
			cache, err = builder.WithTTL(opts.CacheTTL).Build()
		} else {
			cache, err = builder.Build()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create analysis cache: %w", err)
		}
		s.cache = &cache
	}

	return s, nil
}

// Close releases the cache.
func (s *Service) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// Analyze analyzes one file. language overrides detection when non-empty;
// otherwise the language is detected from path and content. A file in a
// language without a registry entry or backend grammar gets plain lines and
// no symbols, without error.
//
// Only backend failures and cancellation of ctx are returned as errors.
func (s *Service) Analyze(ctx context.Context, path string, content []byte, language string) (*Result, error) {
	lang, ok := s.resolve(path, content, language)
	if !ok {
		s.logger.Debug("unsupported language, rendering plain text",
			logging.FieldPath, path, logging.FieldLanguage, language)
		return plainResult(path, content), nil
	}

	key := cacheKey(lang.Name, content)
	if s.cache != nil {
		if cached, hit := s.cache.Get(key); hit {
			s.logger.Debug("analysis cache hit", logging.FieldPath, path, logging.FieldLanguage, lang.Name)
			return withPath(cached, path), nil
		}
	}

	// The shared call outlives any single waiter so that a caller giving up
	// does not fail the others.
	shared := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(key, func() (any, error) {
		return s.compute(shared, path, lang, content)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("analyze %s: %w", path, res.Err)
		}
		return withPath(res.Val.(*Result), path), nil
	}
}

func (s *Service) resolve(path string, content []byte, language string) (*languages.Language, bool) {
	var (
		lang *languages.Language
		ok   bool
	)
	if language != "" {
		lang, ok = s.registry.Lookup(language)
	} else {
		lang, ok = s.registry.Detect(path, content)
	}
	if !ok || !s.backend.Supports(lang.Name) {
		return nil, false
	}
	return lang, true
}

func (s *Service) compute(ctx context.Context, path string, lang *languages.Language, content []byte) (*Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	parsed, err := s.backend.Parse(ctx, lang.Name, content)
	if err != nil {
		return nil, err
	}

	source := string(content)
	res := &Result{
		Language:     lang.Name,
		Declarations: []decl.Declaration{},
		Scopes:       []scope.Scope{},
	}

	switch {
	case parsed.TokensErr != nil:
		s.degrade(res, path, lang, "token payload malformed, rendering plain text", parsed.TokensErr)
		res.Lines = tokens.Plain(source)
	default:
		lines, err := s.converter.Convert(source, parsed.Tokens)
		if err != nil {
			s.degrade(res, path, lang, "token conversion failed, rendering plain text", err)
			lines = tokens.Plain(source)
		}
		res.Lines = lines
	}

	if parsed.TreeErr != nil || parsed.Tree == nil {
		cause := parsed.TreeErr
		if cause == nil {
			cause = syntax.ErrMalformedTree
		}
		s.degrade(res, path, lang, "syntax tree malformed, folding unavailable", cause)
	} else {
		res.Tree = parsed.Tree
		res.Scopes = lang.ExtractScopes(parsed.Tree)
		res.Declarations = lang.ExtractDeclarations(parsed.Tree, source)
	}

	if s.cache != nil {
		s.cache.Set(cacheKey(lang.Name, content), res)
	}

	s.logger.Debug("analyzed",
		logging.FieldPath, path,
		logging.FieldLanguage, lang.Name,
		logging.FieldLines, len(res.Lines),
		logging.FieldNodes, syntax.Count(res.Tree),
		logging.FieldScopes, len(res.Scopes),
		logging.FieldDecls, len(res.Declarations),
		logging.FieldDegraded, res.Degraded,
		logging.FieldDuration, time.Since(start))
	return res, nil
}

func (s *Service) degrade(res *Result, path string, lang *languages.Language, msg string, err error) {
	res.Degraded = true
	s.logger.Warn(msg, logging.FieldPath, path, logging.FieldLanguage, lang.Name, logging.FieldError, err)
}

// AnalyzeFiles reads and analyzes paths, at most Options.Jobs at a time.
// Results are returned in the order of paths. onDone, when non-nil, is
// called once per finished file and may be called concurrently.
func (s *Service) AnalyzeFiles(ctx context.Context, paths []string, language string, onDone func(*Result)) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)

	for i, path := range paths {
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			res, err := s.Analyze(ctx, path, content, language)
			if err != nil {
				return err
			}
			results[i] = res
			if onDone != nil {
				onDone(res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func plainResult(path string, content []byte) *Result {
	return &Result{
		Path:         path,
		Lines:        tokens.Plain(string(content)),
		Declarations: []decl.Declaration{},
		Scopes:       []scope.Scope{},
	}
}

func withPath(r *Result, path string) *Result {
	out := *r
	out.Path = path
	return &out
}

func cacheKey(language string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(language))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
