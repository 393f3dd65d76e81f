package analysis

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codefold/internal/backend"
	"github.com/mvp-joe/codefold/internal/decl"
	"github.com/mvp-joe/codefold/internal/languages"
	"github.com/mvp-joe/codefold/internal/logging"
	"github.com/mvp-joe/codefold/internal/scope"
	"github.com/mvp-joe/codefold/internal/syntax"
	"github.com/mvp-joe/codefold/internal/tokens"
)

// Test Plan for Service:
// - A supported file yields lines that round-trip, its scopes and declarations
// - Repeated identical content is served from the cache
// - Unsupported languages render plain text without calling the backend
// - Malformed token or tree payloads degrade only the affected part and warn
// - Backend failures are returned; cancellation aborts only the waiting caller
// - AnalyzeFiles keeps input order and reports every finished file

const jsonSource = `{"a": [1, {}]}`

// countingBackend delegates to tree-sitter and lets tests tamper with the
// result or block the call.
type countingBackend struct {
	inner   backend.Backend
	calls   atomic.Int32
	mutate  func(*backend.Parsed)
	err     error
	release chan struct{}
}

func (b *countingBackend) Supports(language string) bool { return b.inner.Supports(language) }

func (b *countingBackend) Parse(ctx context.Context, language string, source []byte) (*backend.Parsed, error) {
	b.calls.Add(1)
	if b.release != nil {
		<-b.release
	}
	if b.err != nil {
		return nil, b.err
	}
	parsed, err := b.inner.Parse(ctx, language, source)
	if err != nil {
		return nil, err
	}
	if b.mutate != nil {
		b.mutate(parsed)
	}
	return parsed, nil
}

func newService(t *testing.T, b backend.Backend, opts Options) *Service {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = logging.NewWithWriter(&bytes.Buffer{}, "debug")
	}
	s, err := NewService(b, languages.NewRegistry(), opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestAnalyze_JSON(t *testing.T) {
	t.Parallel()

	b := &countingBackend{inner: backend.NewTreeSitter()}
	s := newService(t, b, Options{CacheSize: 16})

	res, err := s.Analyze(context.Background(), "data.json", []byte(jsonSource), "")
	require.NoError(t, err)

	assert.Equal(t, "data.json", res.Path)
	assert.Equal(t, "json", res.Language)
	assert.False(t, res.Degraded)
	assert.Equal(t, jsonSource, tokens.Text(res.Lines))
	assert.Equal(t, []scope.Scope{
		{PrefixStart: syntax.Pos(0, 0), PrefixEnd: syntax.Pos(0, 1), End: syntax.Pos(0, 14)},
		{PrefixStart: syntax.Pos(0, 6), PrefixEnd: syntax.Pos(0, 7), End: syntax.Pos(0, 13)},
		{PrefixStart: syntax.Pos(0, 10), PrefixEnd: syntax.Pos(0, 11), End: syntax.Pos(0, 12)},
	}, res.Scopes)
	assert.Empty(t, res.Declarations)
	require.NotNil(t, res.Tree)
	assert.Equal(t, "document", res.Tree.Type)
}

func TestAnalyze_CachesByLanguageAndContent(t *testing.T) {
	t.Parallel()

	b := &countingBackend{inner: backend.NewTreeSitter()}
	s := newService(t, b, Options{CacheSize: 16, CacheTTL: time.Minute})
	ctx := context.Background()

	first, err := s.Analyze(ctx, "a.json", []byte(jsonSource), "")
	require.NoError(t, err)
	second, err := s.Analyze(ctx, "b.json", []byte(jsonSource), "")
	require.NoError(t, err)

	assert.Equal(t, int32(1), b.calls.Load())
	assert.Equal(t, "b.json", second.Path, "path belongs to the caller, not the cache entry")
	assert.Equal(t, first.Scopes, second.Scopes)

	_, err = s.Analyze(ctx, "a.js", []byte(jsonSource), "javascript")
	require.NoError(t, err)
	assert.Equal(t, int32(2), b.calls.Load(), "language is part of the key")
}

func TestAnalyze_NoCache(t *testing.T) {
	t.Parallel()

	b := &countingBackend{inner: backend.NewTreeSitter()}
	s := newService(t, b, Options{})

	for range 2 {
		_, err := s.Analyze(context.Background(), "a.json", []byte(jsonSource), "")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), b.calls.Load())
}

func TestAnalyze_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	b := &countingBackend{inner: backend.NewTreeSitter()}
	s := newService(t, b, Options{})

	res, err := s.Analyze(context.Background(), "notes.txt", []byte("hello\n\tworld"), "")
	require.NoError(t, err)
	assert.Empty(t, res.Language)
	assert.False(t, res.Degraded)
	assert.Equal(t, "hello\n\tworld", tokens.Text(res.Lines))
	assert.Empty(t, res.Scopes)
	assert.Empty(t, res.Declarations)

	res, err = s.Analyze(context.Background(), "x.c", []byte("int a;"), "cobol")
	require.NoError(t, err)
	assert.Empty(t, res.Language)

	assert.Equal(t, int32(0), b.calls.Load())
}

func TestAnalyze_MalformedTokensDegradeLines(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	b := &countingBackend{
		inner: backend.NewTreeSitter(),
		mutate: func(p *backend.Parsed) {
			p.Tokens = nil
			p.TokensErr = tokens.ErrMalformedToken
		},
	}
	s := newService(t, b, Options{Logger: logging.NewWithWriter(&logs, "warn")})

	res, err := s.Analyze(context.Background(), "a.json", []byte(jsonSource), "")
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, tokens.Plain(jsonSource), res.Lines)
	assert.Len(t, res.Scopes, 3, "tree is still usable")
	assert.Contains(t, logs.String(), "token payload malformed")
}

func TestAnalyze_UnsortedTokensDegradeLines(t *testing.T) {
	t.Parallel()

	b := &countingBackend{
		inner: backend.NewTreeSitter(),
		mutate: func(p *backend.Parsed) {
			p.Tokens[0], p.Tokens[1] = p.Tokens[1], p.Tokens[0]
		},
	}
	s := newService(t, b, Options{})

	res, err := s.Analyze(context.Background(), "a.json", []byte(jsonSource), "")
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, tokens.Plain(jsonSource), res.Lines)
}

func TestAnalyze_MalformedTreeDegradesSymbols(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	b := &countingBackend{
		inner: backend.NewTreeSitter(),
		mutate: func(p *backend.Parsed) {
			p.Tree = nil
			p.TreeErr = syntax.ErrMalformedTree
		},
	}
	s := newService(t, b, Options{Logger: logging.NewWithWriter(&logs, "warn")})

	source := "int add(int a, int b) { return a + b; }"
	res, err := s.Analyze(context.Background(), "add.c", []byte(source), "")
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, []scope.Scope{}, res.Scopes)
	assert.Equal(t, []decl.Declaration{}, res.Declarations)
	assert.Nil(t, res.Tree)
	assert.Equal(t, source, tokens.Text(res.Lines), "highlighting survives")
	assert.Contains(t, logs.String(), "syntax tree malformed")
}

func TestAnalyze_BackendFailure(t *testing.T) {
	t.Parallel()

	b := &countingBackend{inner: backend.NewTreeSitter(), err: backend.ErrBackend}
	s := newService(t, b, Options{CacheSize: 4})

	res, err := s.Analyze(context.Background(), "a.json", []byte(jsonSource), "")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, backend.ErrBackend)

	// Failures are not cached.
	_, _ = s.Analyze(context.Background(), "a.json", []byte(jsonSource), "")
	assert.Equal(t, int32(2), b.calls.Load())
}

func TestAnalyze_CancelledWaiter(t *testing.T) {
	t.Parallel()

	b := &countingBackend{inner: backend.NewTreeSitter(), release: make(chan struct{})}
	s := newService(t, b, Options{CacheSize: 4})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Analyze(ctx, "a.json", []byte(jsonSource), "")
		done <- err
	}()

	require.Eventually(t, func() bool { return b.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// The shared call keeps running and its result is reused.
	close(b.release)
	res, err := s.Analyze(context.Background(), "a.json", []byte(jsonSource), "")
	require.NoError(t, err)
	assert.Len(t, res.Scopes, 3)
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestAnalyzeFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.c"),
		filepath.Join(dir, "c.txt"),
	}
	require.NoError(t, os.WriteFile(paths[0], []byte(jsonSource), 0644))
	require.NoError(t, os.WriteFile(paths[1], []byte("int x;"), 0644))
	require.NoError(t, os.WriteFile(paths[2], []byte("plain"), 0644))

	s := newService(t, backend.NewTreeSitter(), Options{Jobs: 2})

	var mu sync.Mutex
	var seen []string
	results, err := s.AnalyzeFiles(context.Background(), paths, "", func(r *Result) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Path)
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "json", results[0].Language)
	assert.Equal(t, "c", results[1].Language)
	assert.Equal(t, "x", results[1].Declarations[0].Identifier)
	assert.Empty(t, results[2].Language)
	assert.ElementsMatch(t, paths, seen)

	_, err = s.AnalyzeFiles(context.Background(), []string{filepath.Join(dir, "missing.c")}, "", nil)
	assert.Error(t, err)
}

func TestNewService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, languages.NewRegistry(), Options{})
	assert.Error(t, err)
	_, err = NewService(backend.NewTreeSitter(), nil, Options{})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, backend.ErrBackend))
}
