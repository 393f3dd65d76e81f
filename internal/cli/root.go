// Package cli implements the codefold command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codefold/internal/logging"
)

var (
	cfgFile  string
	verbose  bool
	logLevel string
	quiet    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codefold",
	Short: "Codefold - scopes, declarations and token lines for source files",
	Long: `Codefold parses source files and reports what a code reader needs to
fold and navigate them: the scopes a file can be folded at, the
declarations it contains, and its text as lines of classified tokens.

Configuration is read from .codefold/config.yml in the current directory,
layered over ~/.codefold/config.yml, with CODEFOLD_* environment overrides.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .codefold/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "disable progress bars")
}

// initLogging applies the flag level to the default logger. The configured
// level is applied later, once the config is loaded, unless a flag set one.
func initLogging() error {
	switch {
	case verbose:
		logging.SetLevel("debug")
	case logLevel != "":
		if !logging.ValidLevel(logLevel) {
			return fmt.Errorf("invalid --log-level %q (valid: debug, info, warn, error)", logLevel)
		}
		logging.SetLevel(logLevel)
	}
	return nil
}

// levelFromFlags reports whether the log level was chosen on the command line.
func levelFromFlags() bool {
	return verbose || logLevel != ""
}
