package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codefold/internal/syntax"
	"github.com/mvp-joe/codefold/internal/tokens"
)

// Test Plan for Remote:
// - Both endpoints receive the source, the language and one shared request id
// - Tree and token payloads decode into Parsed
// - Malformed payloads are reported in Parsed, not as errors
// - Non-200 responses and unreachable services wrap ErrBackend

type fakeService struct {
	mu       sync.Mutex
	ids      map[string]string
	requests []parseRequest

	tree   string
	tokens string
	status int
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.ids[r.URL.Path] = r.Header.Get(RequestIDHeader)
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.status != 0 {
		http.Error(w, "backend exploded", f.status)
		return
	}
	switch r.URL.Path {
	case ASTPath:
		_, _ = w.Write([]byte(f.tree))
	case TokensPath:
		_, _ = w.Write([]byte(f.tokens))
	default:
		http.NotFound(w, r)
	}
}

func newFake(tree, toks string) *fakeService {
	return &fakeService{ids: map[string]string{}, tree: tree, tokens: toks}
}

func TestRemote_Parse(t *testing.T) {
	t.Parallel()

	fake := newFake(
		`{"type":"program","start":[0,0],"end":[0,5],"children":[{"type":"identifier","start":[0,4],"end":[0,5]}]}`,
		`[{"type":"keyword","start":[0,0],"end":[0,3]},{"type":"variable","start":[0,4],"end":[0,5]}]`,
	)
	srv := httptest.NewServer(fake)
	defer srv.Close()

	parsed, err := NewRemote(srv.URL+"/", srv.Client()).Parse(context.Background(), "javascript", []byte("var x"))
	require.NoError(t, err)

	require.NoError(t, parsed.TreeErr)
	require.NoError(t, parsed.TokensErr)
	assert.Equal(t, "program", parsed.Tree.Type)
	assert.Equal(t, []tokens.RawToken{
		{Type: "keyword", Start: syntax.Pos(0, 0), End: syntax.Pos(0, 3)},
		{Type: "variable", Start: syntax.Pos(0, 4), End: syntax.Pos(0, 5)},
	}, parsed.Tokens)

	require.Len(t, fake.requests, 2)
	for _, req := range fake.requests {
		assert.Equal(t, parseRequest{Source: "var x", Language: "javascript"}, req)
	}
	assert.NotEmpty(t, fake.ids[ASTPath])
	assert.Equal(t, fake.ids[ASTPath], fake.ids[TokensPath])
}

func TestRemote_MalformedPayloads(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newFake(`{"type":1}`, `[{"type":"keyword"}]`))
	defer srv.Close()

	parsed, err := NewRemote(srv.URL, srv.Client()).Parse(context.Background(), "c", []byte("int"))
	require.NoError(t, err)
	assert.Nil(t, parsed.Tree)
	assert.ErrorIs(t, parsed.TreeErr, syntax.ErrMalformedTree)
	assert.Nil(t, parsed.Tokens)
	assert.ErrorIs(t, parsed.TokensErr, tokens.ErrMalformedToken)
}

func TestRemote_Failures(t *testing.T) {
	t.Parallel()

	fake := newFake("", "")
	fake.status = http.StatusBadGateway
	srv := httptest.NewServer(fake)
	defer srv.Close()

	_, err := NewRemote(srv.URL, srv.Client()).Parse(context.Background(), "c", []byte("int"))
	assert.ErrorIs(t, err, ErrBackend)
	assert.Contains(t, err.Error(), "502")

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()
	_, err = NewRemote(url, nil).Parse(context.Background(), "c", []byte("int"))
	assert.ErrorIs(t, err, ErrBackend)
}
