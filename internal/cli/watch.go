package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codefold/internal/analysis"
	"github.com/mvp-joe/codefold/internal/discovery"
	"github.com/mvp-joe/codefold/internal/logging"
	"github.com/mvp-joe/codefold/internal/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-analyze files as they change",
	Long: `Watch a directory (default: the current one) and re-analyze each
batch of changed files once the tree has been quiet for watch.debounce.

Each changed file is reported with its scope and declaration counts, or
with --json as one JSON object per line. Press Ctrl+C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addAnalysisFlags(watchCmd)
}

// watchEvent is one line of watch --json output.
type watchEvent struct {
	Path         string `json:"path"`
	Removed      bool   `json:"removed,omitempty"`
	Language     string `json:"language,omitempty"`
	Degraded     bool   `json:"degraded,omitempty"`
	Scopes       int    `json:"scopes"`
	Declarations int    `json:"declarations"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return err
	}

	d, err := discovery.New(dir, e.cfg.Paths.Include, e.cfg.Paths.Ignore)
	if err != nil {
		return fmt.Errorf("invalid path patterns: %w", err)
	}

	var filter func(string) bool
	if len(e.cfg.Paths.Include) == 0 && langFlag == "" {
		filter = func(path string) bool {
			_, ok := e.registry.Detect(path, nil)
			return ok
		}
	}

	w, err := watcher.New(d, watcher.Options{
		Debounce: e.cfg.Watch.Debounce,
		Filter:   filter,
		Logger:   e.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	defer w.Stop()

	out := cmd.OutOrStdout()
	if err := w.Start(ctx, func(files []string) {
		e.reportChanges(ctx, out, files)
	}); err != nil {
		return err
	}

	e.logger.Info("watching for changes", logging.FieldPath, e.relPath(dir))
	<-ctx.Done()
	return nil
}

// reportChanges analyzes one batch from the watcher. Failures are logged so
// that watching continues.
func (e *env) reportChanges(ctx context.Context, out io.Writer, files []string) {
	for _, path := range files {
		name := e.relPath(path)
		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			e.writeWatchEvent(out, watchEvent{Path: name, Removed: true}, nil)
			continue
		}
		if err != nil {
			e.logger.Warn("failed to read changed file", logging.FieldPath, name, logging.FieldError, err)
			continue
		}

		res, err := e.service.Analyze(ctx, path, content, langFlag)
		if err != nil {
			if ctx.Err() == nil {
				e.logger.Warn("analysis failed", logging.FieldPath, name, logging.FieldError, err)
			}
			continue
		}
		e.writeWatchEvent(out, watchEvent{
			Path:         name,
			Language:     res.Language,
			Degraded:     res.Degraded,
			Scopes:       len(res.Scopes),
			Declarations: len(res.Declarations),
		}, res)
	}
}

func (e *env) writeWatchEvent(out io.Writer, ev watchEvent, res *analysis.Result) {
	if jsonOutput {
		if err := writeJSONLine(out, ev); err != nil {
			e.logger.Warn("failed to write event", logging.FieldError, err)
		}
		return
	}
	if ev.Removed {
		fmt.Fprintf(out, "%s removed\n", ev.Path)
		return
	}
	header(out, ev.Path, res)
	fmt.Fprintf(out, "  %d scopes, %d declarations\n", ev.Scopes, ev.Declarations)
}
