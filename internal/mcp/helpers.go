package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// errOutsideRoot is reported for paths that escape the project root.
var errOutsideRoot = errors.New("path is outside project root")

// resolvePath maps a tool path argument onto the file system. Relative
// paths are taken from root; either way the result must stay inside root,
// both as written and once symlinks are followed. A path that does not exist
// is returned as written so the read reports it missing.
func resolvePath(root, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)
	if !within(root, path) {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, path)
	}

	target, err := filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		realRoot = root
	}
	if !within(realRoot, target) {
		return "", fmt.Errorf("%w: %s links to %s", errOutsideRoot, path, target)
	}
	return path, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// readFile resolves and reads path. User-facing failures come back as a
// tool error result; the error return is reserved for internal failures.
func readFile(root, path string) (string, []byte, *mcp.CallToolResult) {
	if path == "" {
		return "", nil, mcp.NewToolResultError("path parameter is required")
	}
	resolved, err := resolvePath(root, path)
	if err != nil {
		return "", nil, mcp.NewToolResultError(err.Error())
	}
	content, err := os.ReadFile(resolved)
	if err != nil {
		return "", nil, mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", path, err))
	}
	return resolved, content, nil
}

// marshalToolResponse marshals a response object to JSON and returns it as
// an MCP text result.
func marshalToolResponse(response any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
