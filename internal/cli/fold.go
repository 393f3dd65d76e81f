package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codefold/internal/scope"
	"github.com/mvp-joe/codefold/internal/syntax"
)

var (
	foldLine int
	foldChar int
)

// foldCmd represents the fold command
var foldCmd = &cobra.Command{
	Use:   "fold <path> --line N [--char N]",
	Short: "Show the innermost scope enclosing a line",
	Long: `Show the smallest scope whose introducer starts on, or whose body
contains, the given 1-based line: the region an editor would fold.
With --char the scope has to contain that exact position instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runFold,
}

func init() {
	rootCmd.AddCommand(foldCmd)
	addAnalysisFlags(foldCmd)
	foldCmd.Flags().IntVar(&foldLine, "line", 0, "1-based line number")
	foldCmd.Flags().IntVar(&foldChar, "char", 0, "1-based character on the line")
	_ = foldCmd.MarkFlagRequired("line")
}

// foldResult is the JSON shape of fold output.
type foldResult struct {
	Path  string       `json:"path"`
	Line  int          `json:"line"`
	Char  int          `json:"char,omitempty"`
	Scope *scope.Scope `json:"scope"`
}

func runFold(cmd *cobra.Command, args []string) error {
	if foldLine < 1 {
		return fmt.Errorf("--line must be 1 or greater, got %d", foldLine)
	}
	if foldChar < 0 {
		return fmt.Errorf("--char must be 1 or greater, got %d", foldChar)
	}

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

	out := cmd.OutOrStdout()
	found, ok := innermost(res.Scopes, foldLine, foldChar)
	if jsonOutput {
		result := foldResult{Path: e.relPath(path), Line: foldLine, Char: foldChar}
		if ok {
			result.Scope = &found
		}
		return writeJSON(out, result)
	}
	if !ok {
		fmt.Fprintf(out, "no scope encloses line %d\n", foldLine)
		return nil
	}
	fmt.Fprintf(out, "%d-%d  %s\n", found.PrefixStart.Line+1, found.End.Line+1, prefixText(sourceLines(res), found))
	return nil
}

// innermost picks the fold for a 1-based line, narrowed to a position when
// char is set.
func innermost(scopes []scope.Scope, line, char int) (scope.Scope, bool) {
	if char == 0 {
		return scope.InnermostLine(scopes, line-1)
	}
	return scope.Innermost(scopes, syntax.Pos(line-1, char-1))
}
