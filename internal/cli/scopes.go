package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// scopesCmd represents the scopes command
var scopesCmd = &cobra.Command{
	Use:   "scopes <path>...",
	Short: "List the foldable scopes of source files",
	Long: `List the scopes each file can be folded at, nested by containment.
Each row shows the 1-based line range and the scope's introducer.

Directory arguments are walked using paths.include and paths.ignore from
the configuration.

Examples:
  codefold scopes src/app.js
  codefold scopes --json src/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScopes,
}

func init() {
	rootCmd.AddCommand(scopesCmd)
	addAnalysisFlags(scopesCmd)
}

// fileScopes is the JSON shape of one file in scopes output.
type fileScopes struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
	Scopes   any    `json:"scopes"`
}

func runScopes(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	results, err := e.analyzeArgs(ctx, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		files := make([]fileScopes, 0, len(results))
		for _, r := range results {
			files = append(files, fileScopes{Path: e.relPath(r.Path), Language: r.Language, Degraded: r.Degraded, Scopes: r.Scopes})
		}
		return writeJSON(out, files)
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		header(out, e.relPath(r.Path), r)
		writeScopeForest(out, r)
	}
	return nil
}
