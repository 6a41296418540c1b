// Package watch re-runs a batch whenever diary pages or Toggl exports change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gorewood/nikki/internal/logging"
)

// DefaultDebounce is the quiet period before a batch runs.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc is one batch. Its error is logged and watching continues.
type RunFunc func(ctx context.Context) error

// Options configure a watch.
type Options struct {
	// Roots are watched recursively. Missing roots are skipped.
	Roots []string
	// Exts restricts triggering files by extension. Default: .md and .csv.
	Exts []string
	// Ignore lists files whose changes never trigger, such as the reports
	// the batch itself writes.
	Ignore   []string
	Debounce time.Duration
	Logger   *zap.Logger
}

func (o *Options) defaults() {
	if len(o.Exts) == 0 {
		o.Exts = []string{".md", ".csv"}
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	o.Logger = logging.OrNop(o.Logger)
}

// Watch blocks until ctx is cancelled, calling run once per debounced burst
// of relevant changes. Batches never overlap.
func Watch(ctx context.Context, opts Options, run RunFunc) error {
	opts.defaults()
	logger := opts.Logger

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	watched := 0
	for _, root := range opts.Roots {
		if root == "" {
			continue
		}
		if err := addDirsRecursive(w, root); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Warn("watch root missing", zap.String("root", root))
				continue
			}
			return fmt.Errorf("watch %s: %w", root, err)
		}
		watched++
	}
	if watched == 0 {
		return errors.New("no directories to watch")
	}

	f := newFilter(opts)
	logger.Debug("watcher started", zap.Strings("roots", opts.Roots))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(opts.Debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(opts.Debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Debug("watcher stopped")
			return nil

		case <-timerCh:
			timer, timerCh = nil, nil
			if err := run(ctx); err != nil {
				logger.Warn("batch failed", zap.Error(err))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watch new dir failed", zap.String("path", ev.Name), zap.Error(addErr))
					}
					schedule()
					continue
				}
			}
			if ev.Op == fsnotify.Chmod || !f.relevant(ev.Name) {
				continue
			}
			logger.Debug("change", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(watchErr))
		}
	}
}

type filter struct {
	exts   []string
	ignore map[string]bool
}

func newFilter(opts Options) *filter {
	f := &filter{exts: opts.Exts, ignore: make(map[string]bool, len(opts.Ignore))}
	for _, p := range opts.Ignore {
		f.ignore[absClean(p)] = true
	}
	return f
}

// relevant reports whether a change to path should trigger a batch.
// Hidden files, including in-flight temp files, never do.
func (f *filter) relevant(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") || f.ignore[absClean(path)] {
		return false
	}
	ext := filepath.Ext(path)
	for _, e := range f.exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func absClean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
