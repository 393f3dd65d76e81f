// Package discovery expands directory arguments into the files to analyze.
package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern is a glob with its top-level variant.
type compiledPattern struct {
	glob glob.Glob
	// root matches files at the top level for patterns starting with "**/",
	// so "**/*.js" matches both "app.js" and "src/app.js".
	root glob.Glob
}

// Discovery walks a directory tree and selects files with glob patterns.
type Discovery struct {
	rootDir        string
	includes       []compiledPattern
	ignorePatterns []compiledPattern
}

// New compiles the include and ignore patterns. Patterns are matched against
// slash-separated paths relative to rootDir. An empty include list selects
// every file that is not ignored.
func New(rootDir string, include, ignore []string) (*Discovery, error) {
	d := &Discovery{rootDir: rootDir}

	var err error
	if d.includes, err = compileAll(include); err != nil {
		return nil, err
	}
	if d.ignorePatterns, err = compileAll(ignore); err != nil {
		return nil, err
	}
	return d, nil
}

func compileAll(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		cp := compiledPattern{glob: g}
		if simplified, ok := strings.CutPrefix(pattern, "**/"); ok {
			if cp.root, err = glob.Compile(simplified, '/'); err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

// Discover returns the selected files under the root, sorted. Ignored
// directories are not descended into. The walk stops when ctx is done.
func (d *Discovery) Discover(ctx context.Context) ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(d.rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if entry.IsDir() {
			if d.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		if d.Match(relPath) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Match reports whether a root-relative, slash-separated file path is
// selected.
func (d *Discovery) Match(relPath string) bool {
	if d.shouldIgnore(relPath) {
		return false
	}
	if len(d.includes) == 0 {
		return true
	}
	return matchesAnyPattern(relPath, d.includes)
}

// Root is the directory the patterns are relative to.
func (d *Discovery) Root() string { return d.rootDir }

// Ignored reports whether a root-relative, slash-separated directory is
// skipped entirely.
func (d *Discovery) Ignored(relPath string) bool {
	return d.shouldIgnore(relPath)
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	// Always ignore the settings directory
	if relPath == ".codefold" || strings.HasPrefix(relPath, ".codefold/") {
		return true
	}

	if matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}

	// A directory such as "node_modules" matches "node_modules/**".
	return matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	topLevel := !strings.Contains(path, "/")
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if topLevel && cp.root != nil && cp.root.Match(path) {
			return true
		}
	}
	return false
}
