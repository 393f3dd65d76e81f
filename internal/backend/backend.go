// Package backend produces syntax trees and token streams for source files,
// either in process with tree-sitter or from a remote tree service.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mvp-joe/codefold/internal/syntax"
	"github.com/mvp-joe/codefold/internal/tokens"
)

var (
	// ErrBackend wraps every failure of the parse call itself.
	ErrBackend = errors.New("parse backend failed")
	// ErrUnsupported is returned for a language the backend has no grammar for.
	ErrUnsupported = errors.New("language not supported by backend")
)

// Parsed is a backend's result for one file.
type Parsed struct {
	// Tree is nil when the backend returned a payload that did not decode;
	// TreeErr then holds the decode error.
	Tree    *syntax.Node
	TreeErr error

	// Tokens is the raw token stream in source order. TokensErr holds the
	// decode error when the payload was malformed.
	Tokens    []tokens.RawToken
	TokensErr error
}

// Backend parses source text of a named language.
type Backend interface {
	// Parse returns the tree and token stream of source. A malformed payload
	// is reported inside Parsed, not as an error, so callers can degrade. The
	// error result wraps ErrBackend or ErrUnsupported.
	Parse(ctx context.Context, language string, source []byte) (*Parsed, error)

	// Supports reports whether the backend can parse the language.
	Supports(language string) bool
}

// Config selects and configures a backend.
type Config struct {
	// Kind is "local" (tree-sitter, the default) or "remote".
	Kind string

	// Endpoint is the base URL of the remote tree service.
	Endpoint string

	// Timeout bounds each remote request. Zero means no client timeout;
	// callers may still bound requests through the context.
	Timeout time.Duration
}

// New creates the backend described by cfg.
func New(cfg Config) (Backend, error) {
	switch strings.ToLower(cfg.Kind) {
	case "local", "":
		return NewTreeSitter(), nil
	case "remote":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("remote backend requires an endpoint")
		}
		return NewRemote(cfg.Endpoint, &http.Client{Timeout: cfg.Timeout}), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s (supported: local, remote)", cfg.Kind)
	}
}
