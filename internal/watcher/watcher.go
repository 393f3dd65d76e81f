// Package watcher reports batches of changed source files under a project
// directory.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/mvp-joe/codefold/internal/discovery"
	"github.com/mvp-joe/codefold/internal/logging"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Debounce is how long the tree must stay quiet before a batch is
	// delivered.
	Debounce time.Duration
	// Filter, when set, further restricts the files selected by the
	// discovery patterns. It receives the absolute path.
	Filter func(path string) bool
	Logger *log.Logger
}

// Watcher watches every non-ignored directory under a discovery root and
// delivers debounced, deduplicated batches of changed files.
type Watcher struct {
	fs       *fsnotify.Watcher
	disc     *discovery.Discovery
	debounce time.Duration
	filter   func(string) bool
	logger   *log.Logger

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// New registers the directories under disc.Root(). Ignored directories are
// not watched.
func New(disc *discovery.Discovery, opts Options) (*Watcher, error) {
	if disc == nil {
		return nil, errors.New("watcher: discovery is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:       fsw,
		disc:     disc,
		debounce: opts.Debounce,
		filter:   opts.Filter,
		logger:   opts.Logger,
		done:     make(chan struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = logging.Default()
	}

	if err := w.addTree(disc.Root()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start delivers batches to onChange from a background goroutine until ctx
// is done or Stop is called. Batches are sorted and never empty. A removed
// file is reported like a modified one; callers check whether it still
// exists.
//
// onChange runs on its own goroutine, one batch at a time. Events keep
// draining while it runs, and changes that settle meanwhile are merged into
// the next batch. Stop waits for a running onChange to return.
func (w *Watcher) Start(ctx context.Context, onChange func(files []string)) error {
	if onChange == nil {
		return errors.New("watcher: callback is required")
	}
	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx, onChange)
	return nil
}

// Stop ends watching and releases the underlying watcher. It is safe to
// call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.done
		} else {
			close(w.done)
		}
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context, onChange func([]string)) {
	batches := make(chan []string)
	delivered := make(chan struct{})
	go func() {
		defer close(delivered)
		for files := range batches {
			onChange(files)
		}
	}()
	defer func() {
		close(batches)
		<-delivered
		close(w.done)
	}()

	pending := map[string]struct{}{}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	// ready is a settled batch the worker has not taken yet. send is nil
	// while there is none.
	var (
		ready []string
		send  chan<- []string
	)

	for {
		select {
		case <-ctx.Done():
			return

		case send <- ready:
			ready, send = nil, nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", logging.FieldPath, event.Name, logging.FieldError, err)
					}
					continue
				}
			}
			if !w.selected(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			for _, f := range ready {
				pending[f] = struct{}{}
			}
			ready = slices.Sorted(maps.Keys(pending))
			clear(pending)
			send = batches

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", logging.FieldError, err)
		}
	}
}

func (w *Watcher) selected(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	rel, ok := w.rel(event.Name)
	if !ok || !w.disc.Match(rel) {
		return false
	}
	return w.filter == nil || w.filter(event.Name)
}

func (w *Watcher) rel(path string) (string, bool) {
	rel, err := filepath.Rel(w.disc.Root(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// addTree watches root and every directory below it that is not ignored.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Debug("skipping unreadable path", logging.FieldPath, path, logging.FieldError, err)
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if rel, ok := w.rel(path); ok && rel != "." && w.disc.Ignored(rel) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", logging.FieldPath, path, logging.FieldError, err)
		}
		return nil
	})
}
