package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree <path>",
	Short: "Print the syntax tree of a file",
	Long: `Print the syntax tree the parse backend produced for a file, as an
indented outline or, with --json, in the tree wire format.`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	addAnalysisFlags(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	res, err := e.service.Analyze(ctx, path, content, langFlag)
	if err != nil {
		return err
	}
	if res.Tree == nil {
		if res.Language == "" {
			return fmt.Errorf("%s: no parser for this language", path)
		}
		return fmt.Errorf("%s: the parse backend returned no usable tree", path)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, res.Tree)
	}
	writeTree(out, res.Tree)
	return nil
}
