// Package mcp exposes codefold's scope and declaration extraction as Model
// Context Protocol tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/codefold/internal/logging"
)

// ServerName is reported to MCP clients.
const ServerName = "codefold-mcp"

// ServerConfig configures the MCP server.
type ServerConfig struct {
	ProjectRoot string // tool paths resolve against this directory
	Version     string
	Logger      *log.Logger // default logging.Default(); must not write to stdout
}

// Server manages the MCP server lifecycle.
type Server struct {
	config ServerConfig
	mcp    *server.MCPServer
}

// NewServer creates a server whose tools analyze files with analyzer.
func NewServer(analyzer Analyzer, config ServerConfig) (*Server, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if config.ProjectRoot == "" {
		return nil, fmt.Errorf("project root is required")
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	if config.Logger == nil {
		config.Logger = logging.Default()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		config.Version,
		server.WithToolCapabilities(true),
	)

	AddScopesTool(mcpServer, analyzer, config.ProjectRoot)
	AddDeclarationsTool(mcpServer, analyzer, config.ProjectRoot)

	return &Server{config: config, mcp: mcpServer}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("starting MCP server on stdio", logging.FieldRoot, s.config.ProjectRoot)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		s.config.Logger.Info("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
