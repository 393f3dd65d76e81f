package mcp

import (
	"github.com/mvp-joe/codefold/internal/decl"
	"github.com/mvp-joe/codefold/internal/scope"
)

// ScopesRequest is the argument set of codefold_scopes.
type ScopesRequest struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Line     *int   `json:"line"` // 1-based; selects the innermost scope around the line
}

// ScopesResponse is returned by codefold_scopes.
type ScopesResponse struct {
	Path     string        `json:"path"`
	Language string        `json:"language,omitempty"`
	Degraded bool          `json:"degraded,omitempty"`
	Scopes   []scope.Scope `json:"scopes"`
	Total    int           `json:"total"`
}

// DeclarationsRequest is the argument set of codefold_declarations.
type DeclarationsRequest struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Name     string `json:"name"` // keeps only declarations with this identifier
}

// DeclarationsResponse is returned by codefold_declarations.
type DeclarationsResponse struct {
	Path         string             `json:"path"`
	Language     string             `json:"language,omitempty"`
	Degraded     bool               `json:"degraded,omitempty"`
	Declarations []decl.Declaration `json:"declarations"`
	Total        int                `json:"total"`
}
