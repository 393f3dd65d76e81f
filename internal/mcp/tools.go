package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/codefold/internal/analysis"
	"github.com/mvp-joe/codefold/internal/decl"
	"github.com/mvp-joe/codefold/internal/scope"
)

// Analyzer is the part of analysis.Service the tools use.
type Analyzer interface {
	Analyze(ctx context.Context, path string, content []byte, language string) (*analysis.Result, error)
}

type toolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// AddScopesTool registers the codefold_scopes tool with an MCP server.
// This function is composable - it can be combined with other tool registrations.
func AddScopesTool(s *server.MCPServer, analyzer Analyzer, projectRoot string) {
	tool := mcp.NewTool(
		"codefold_scopes",
		mcp.WithDescription("List the foldable scopes of a source file: class and function bodies, object and array literals, element bodies. Each scope has a prefix (the header or opening delimiter) and an end position; positions are 0-based line and character."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path, relative to the project root")),
		mcp.WithString("language",
			mcp.Description("Language override (c, html, java, javascript, json, php, python, ruby, rust, typescript). Detected from the file when omitted.")),
		mcp.WithNumber("line",
			mcp.Description("1-based line number. When set, only the innermost scope containing that line is returned.")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createScopesHandler(analyzer, projectRoot))
}

func createScopesHandler(analyzer Analyzer, projectRoot string) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req ScopesRequest
		if err := bindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Line != nil && *req.Line < 1 {
			return mcp.NewToolResultError("line must be 1 or greater"), nil
		}

		resolved, content, errResult := readFile(projectRoot, req.Path)
		if errResult != nil {
			return errResult, nil
		}

		res, err := analyzer.Analyze(ctx, resolved, content, req.Language)
		if err != nil {
			return nil, err
		}

		scopes := res.Scopes
		if req.Line != nil {
			scopes = []scope.Scope{}
			if innermost, ok := scope.InnermostLine(res.Scopes, *req.Line-1); ok {
				scopes = append(scopes, innermost)
			}
		}

		return marshalToolResponse(&ScopesResponse{
			Path:     req.Path,
			Language: res.Language,
			Degraded: res.Degraded,
			Scopes:   scopes,
			Total:    len(scopes),
		})
	}
}

// AddDeclarationsTool registers the codefold_declarations tool with an MCP
// server.
func AddDeclarationsTool(s *server.MCPServer, analyzer Analyzer, projectRoot string) {
	tool := mcp.NewTool(
		"codefold_declarations",
		mcp.WithDescription("List the declarations of a source file (functions, variables, types, structs, preprocessor macros) with their identifier and the span of the identifier."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path, relative to the project root")),
		mcp.WithString("language",
			mcp.Description("Language override. Detected from the file when omitted.")),
		mcp.WithString("name",
			mcp.Description("Only return declarations of this identifier")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createDeclarationsHandler(analyzer, projectRoot))
}

func createDeclarationsHandler(analyzer Analyzer, projectRoot string) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req DeclarationsRequest
		if err := bindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		resolved, content, errResult := readFile(projectRoot, req.Path)
		if errResult != nil {
			return errResult, nil
		}

		res, err := analyzer.Analyze(ctx, resolved, content, req.Language)
		if err != nil {
			return nil, err
		}

		decls := res.Declarations
		if req.Name != "" {
			decls = decl.Named(decls, req.Name)
		}

		return marshalToolResponse(&DeclarationsResponse{
			Path:         req.Path,
			Language:     res.Language,
			Degraded:     res.Degraded,
			Declarations: decls,
			Total:        len(decls),
		})
	}
}
