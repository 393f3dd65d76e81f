package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/codefold/internal/analysis"
	"github.com/mvp-joe/codefold/internal/backend"
	"github.com/mvp-joe/codefold/internal/config"
	"github.com/mvp-joe/codefold/internal/discovery"
	"github.com/mvp-joe/codefold/internal/languages"
	"github.com/mvp-joe/codefold/internal/logging"
)

// Flags shared by the analysis commands.
var (
	jsonOutput bool
	langFlag   string
)

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&langFlag, "lang", "", "Language override (skips detection)")
}

// env is everything an analysis command needs.
type env struct {
	rootDir  string
	cfg      *config.Config
	registry *languages.Registry
	service  *analysis.Service
	logger   *log.Logger
}

func (e *env) Close() {
	e.service.Close()
}

// loadEnv loads configuration from the working directory (or --config) and
// builds the analysis service it describes.
func loadEnv() (*env, error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	var opts []config.LoaderOption
	if cfgFile != "" {
		opts = append(opts, config.WithFile(cfgFile))
	}
	cfg, err := config.NewLoader(rootDir, opts...).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return newEnv(rootDir, cfg)
}

func newEnv(rootDir string, cfg *config.Config) (*env, error) {
	if !levelFromFlags() {
		logging.SetLevel(cfg.Log.Level)
	}
	logger := logging.Default()

	b, err := backend.New(backend.Config{
		Kind:     cfg.Backend.Kind,
		Endpoint: cfg.Backend.Endpoint,
		Timeout:  cfg.Backend.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create parse backend: %w", err)
	}

	registry := languages.NewRegistry()
	service, err := analysis.NewService(b, registry, analysis.Options{
		TabWidth:  cfg.Render.TabWidth,
		CacheSize: cfg.Cache.MaxEntries,
		CacheTTL:  cfg.Cache.TTL,
		Timeout:   cfg.Backend.Timeout,
		Jobs:      cfg.Jobs,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded",
		logging.FieldBackend, cfg.Backend.Kind,
		logging.FieldJobs, cfg.Jobs)

	return &env{
		rootDir:  rootDir,
		cfg:      cfg,
		registry: registry,
		service:  service,
		logger:   logger,
	}, nil
}

// expandPaths turns file and directory arguments into the files to analyze.
// Directories are walked with the configured include and ignore patterns;
// without include patterns only files of a registered language are kept.
// Explicit file arguments are always kept.
func (e *env) expandPaths(ctx context.Context, args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		d, err := discovery.New(arg, e.cfg.Paths.Include, e.cfg.Paths.Ignore)
		if err != nil {
			return nil, fmt.Errorf("invalid path patterns: %w", err)
		}
		found, err := d.Discover(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
		for _, f := range found {
			if len(e.cfg.Paths.Include) == 0 {
				if _, ok := e.registry.Detect(f, nil); !ok {
					continue
				}
			}
			files = append(files, f)
		}
	}
	e.logger.Debug("files selected", logging.FieldFiles, len(files))
	return files, nil
}

// analyzeArgs expands args and analyzes every file, reporting progress for
// multi-file runs.
func (e *env) analyzeArgs(ctx context.Context, args []string) ([]*analysis.Result, error) {
	files, err := e.expandPaths(ctx, args)
	if err != nil {
		return nil, err
	}

	progress := newProgress(len(files), quiet || len(files) < 2)
	defer progress.Finish()

	return e.service.AnalyzeFiles(ctx, files, langFlag, func(r *analysis.Result) {
		progress.OnFileProcessed(r.Path)
	})
}

// relPath shortens path for display when it lies under the working
// directory.
func (e *env) relPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(e.rootDir, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
