package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codefold/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for scope and declaration lookups",
	Long: `Start the Model Context Protocol (MCP) server that lets coding
assistants ask for the scopes and declarations of files in this project.

The MCP server:
- Provides the codefold_scopes and codefold_declarations tools
- Resolves tool paths against the current directory
- Communicates via stdio (standard MCP transport)

Example:
  codefold mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	server, err := mcp.NewServer(e.service, mcp.ServerConfig{
		ProjectRoot: e.rootDir,
		Version:     Version,
		Logger:      e.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
