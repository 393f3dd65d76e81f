package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codefold/internal/decl"
)

var declName string

// declsCmd represents the decls command
var declsCmd = &cobra.Command{
	Use:     "decls <path>...",
	Aliases: []string{"declarations"},
	Short:   "List the declarations of source files",
	Long: `List functions, variables, types, structs and preprocessor macros
declared in each file, with the 1-based position of their identifier.

Examples:
  codefold decls main.c
  codefold decls --name User --json src/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecls,
}

func init() {
	rootCmd.AddCommand(declsCmd)
	addAnalysisFlags(declsCmd)
	declsCmd.Flags().StringVar(&declName, "name", "", "Only show declarations of this identifier")
}

// fileDecls is the JSON shape of one file in decls output.
type fileDecls struct {
	Path         string             `json:"path"`
	Language     string             `json:"language,omitempty"`
	Degraded     bool               `json:"degraded,omitempty"`
	Declarations []decl.Declaration `json:"declarations"`
}

func runDecls(cmd *cobra.Command, args []string) error {
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
	files := make([]fileDecls, 0, len(results))
	for _, r := range results {
		decls := r.Declarations
		if declName != "" {
			decls = decl.Named(decls, declName)
		}
		files = append(files, fileDecls{Path: e.relPath(r.Path), Language: r.Language, Degraded: r.Degraded, Declarations: decls})
	}
	if jsonOutput {
		return writeJSON(out, files)
	}

	for i, f := range files {
		if i > 0 {
			fmt.Fprintln(out)
		}
		header(out, f.Path, results[i])
		view := *results[i]
		view.Declarations = f.Declarations
		if err := writeDeclarations(out, &view); err != nil {
			return err
		}
	}
	return nil
}
