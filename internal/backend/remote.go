package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/codefold/internal/syntax"
	"github.com/mvp-joe/codefold/internal/tokens"
)

// RequestIDHeader carries the id shared by the tree and token requests of
// one Parse call.
const RequestIDHeader = "X-Request-ID"

// Paths of the remote tree service.
const (
	ASTPath    = "/ast"
	TokensPath = "/tokens"
)

// maxPayload bounds a single response body.
const maxPayload = 64 << 20

// Remote fetches trees and token streams from an HTTP tree service.
type Remote struct {
	endpoint string
	client   *http.Client
}

// NewRemote creates a backend that talks to the service at endpoint. A nil
// client means http.DefaultClient.
func NewRemote(endpoint string, client *http.Client) *Remote {
	if client == nil {
		client = http.DefaultClient
	}
	return &Remote{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
	}
}

// parseRequest is the JSON body of both service calls.
type parseRequest struct {
	Source   string `json:"source"`
	Language string `json:"language"`
}

// Supports implements Backend. The service decides, so every language is
// accepted here.
func (r *Remote) Supports(string) bool { return true }

// Parse implements Backend. The tree and the token stream are requested
// concurrently.
func (r *Remote) Parse(ctx context.Context, language string, source []byte) (*Parsed, error) {
	body, err := json.Marshal(parseRequest{Source: string(source), Language: language})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrBackend, err)
	}
	requestID := uuid.New().String()

	var treePayload, tokenPayload []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		treePayload, err = r.post(gctx, ASTPath, requestID, body)
		return err
	})
	g.Go(func() error {
		var err error
		tokenPayload, err = r.post(gctx, TokensPath, requestID, body)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	parsed := &Parsed{}
	parsed.Tree, parsed.TreeErr = syntax.FromJSON(treePayload)
	parsed.Tokens, parsed.TokensErr = tokens.DecodeRaw(tokenPayload)
	return parsed, nil
}

func (r *Remote) post(ctx context.Context, path, requestID string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s request failed: %v", ErrBackend, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", ErrBackend, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d: %s", ErrBackend, path, resp.StatusCode, bytes.TrimSpace(payload))
	}
	return payload, nil
}
