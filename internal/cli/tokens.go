package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codefold/internal/plugin"
)

var (
	minifyFlag  bool
	kindsFlag   bool
	actionsFlag bool
	expandFlag  []string
)

// tokensCmd represents the tokens command
var tokensCmd = &cobra.Command{
	Use:   "tokens <path>",
	Short: "Print a file as lines of classified tokens",
	Long: `Print a file rebuilt from its token lines. Leading tabs are expanded
to render.tab_width spaces.

  --kinds    one token per row with its kind
  --minify   abbreviate long variable names
  --expand   with --minify, show these identifiers in full
  --actions  list the actions offered for each line and token
  --json     the token lines as JSON`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	addAnalysisFlags(tokensCmd)
	tokensCmd.Flags().BoolVar(&minifyFlag, "minify", false, "Abbreviate long variable names")
	tokensCmd.Flags().BoolVar(&kindsFlag, "kinds", false, "Print one token per row with its kind")
	tokensCmd.Flags().BoolVar(&actionsFlag, "actions", false, "List plugin actions per line and token")
	tokensCmd.Flags().StringSliceVar(&expandFlag, "expand", nil, "Identifiers to show in full when minifying")
}

func runTokens(cmd *cobra.Command, args []string) error {
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

	plugins := plugin.NewRegistry()
	if minifyFlag || actionsFlag {
		plugins.Register(plugin.NewMinification(res.Lines, plugin.DefaultMinLength))
	}
	expandIdentifiers(plugins, path, res.Lines, expandFlag)

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		return writeJSON(out, res.Lines)
	case kindsFlag:
		return writeTokenKinds(out, res.Lines)
	case actionsFlag:
		return writeTokenActions(out, plugins, path, res.Lines)
	default:
		writeTokenLines(out, res.Lines, plugins)
	}
	return nil
}
