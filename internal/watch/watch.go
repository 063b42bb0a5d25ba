// Package watch re-runs asset injection when one of its input files changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/assetinject/internal/logfields"
)

// DefaultDebounce collapses bursts of editor writes into one run.
const DefaultDebounce = 300 * time.Millisecond

// RunFunc performs one injection run and returns the files it depends on.
type RunFunc func(ctx context.Context) ([]string, error)

// Watcher watches a set of files and calls a RunFunc after they change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	run      RunFunc
	debounce time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}
}

// New creates a Watcher. A debounce of zero uses DefaultDebounce.
func New(run RunFunc, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:  fw,
		run:      run,
		debounce: debounce,
		logger:   logger,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// SetFiles replaces the watched file set. Parent directories are watched
// rather than the files so that editors replacing a file by rename are seen.
// On error the previous set stays in effect.
func (w *Watcher) SetFiles(paths []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	var added []string
	for dir := range dirs {
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			for _, a := range added {
				_ = w.watcher.Remove(a)
			}
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		added = append(added, dir)
	}
	for dir := range w.dirs {
		if _, ok := dirs[dir]; !ok {
			_ = w.watcher.Remove(dir)
		}
	}

	w.files = files
	w.dirs = dirs
	return nil
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return ok
}

// Run performs an initial run, then re-runs after changes until ctx is done.
// Errors from individual runs are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	w.runOnce(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.watched(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				if event.Has(fsnotify.Remove) {
					w.logger.Warn("Watched file removed", logfields.Path(event.Name))
				}
				continue
			}
			w.logger.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.runOnce(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	start := time.Now()
	files, err := w.run(ctx)
	if err != nil {
		w.logger.Error("Injection run failed", logfields.Error(err))
	} else {
		w.logger.Info("Injection run complete",
			logfields.Count(len(files)),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	}
	if len(files) == 0 {
		return
	}
	if err := w.SetFiles(files); err != nil {
		w.logger.Error("Failed to update watched files", logfields.Error(err))
	}
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
