package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/config"
)

// DefaultDebounce is the quiet period after the last change before a
// re-apply starts.
const DefaultDebounce = 500 * time.Millisecond

// WatchMode re-runs apply whenever a watched file changes.
type WatchMode struct {
	files        map[string]bool
	debounce     time.Duration
	applyOnStart bool
	applyFn      func(ctx context.Context) error
	out          io.Writer
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// WatchOptions configures watch mode behavior.
type WatchOptions struct {
	// Files are the watched paths. Their parent directories are watched so
	// editors that replace files on save are still noticed.
	Files        []string
	Debounce     time.Duration
	ApplyOnStart bool
	Out          io.Writer
}

// NewWatchMode creates a watcher that calls applyFn after changes.
func NewWatchMode(opts WatchOptions, applyFn func(ctx context.Context) error) *WatchMode {
	debounce := opts.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	files := make(map[string]bool, len(opts.Files))
	for _, f := range opts.Files {
		if abs, err := filepath.Abs(f); err == nil {
			files[abs] = true
		}
	}

	return &WatchMode{
		files:        files,
		debounce:     debounce,
		applyOnStart: opts.ApplyOnStart,
		applyFn:      applyFn,
		out:          out,
		stopCh:       make(chan struct{}),
	}
}

// WatchFiles returns the config file and every input file cfg references.
func WatchFiles(cfg *config.Config) []string {
	var files []string
	if cfg.Source != "" {
		files = append(files, cfg.Source)
	}
	for _, p := range []string{
		cfg.Props.GoogleServicesFilePath,
		cfg.Props.HuaweiServicesFilePath,
		cfg.Props.SmallIcon,
		cfg.Props.IOSNseFilePath,
		cfg.Props.IOSNceFilePath,
	} {
		if p != "" {
			files = append(files, cfg.Project.Resolve(p))
		}
	}
	return files
}

// Start watches until ctx is done or Stop is called.
func (w *WatchMode) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	for _, dir := range w.dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	if w.applyOnStart {
		w.triggerApply(ctx)
	}

	w.printf("Watching %d file(s) for changes. Press Ctrl+C to stop.\n", len(w.files))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.printf("Changed: %s\n", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.printf("Warning: file watcher error: %v\n", watchErr)
		case <-fire:
			fire = nil
			w.triggerApply(ctx)
		}
	}
}

// Stop ends a running Start. It is safe to call more than once.
func (w *WatchMode) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *WatchMode) dirs() []string {
	seen := make(map[string]bool)
	for f := range w.files {
		seen[filepath.Dir(f)] = true
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

func (w *WatchMode) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// triggerApply runs the apply function and reports the outcome.
func (w *WatchMode) triggerApply(ctx context.Context) {
	w.printf("Applying changes...\n")
	start := time.Now()

	err := w.applyFn(ctx)

	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		w.printf("Apply failed in %s: %v\n", elapsed, err)
		return
	}
	w.printf("Apply completed in %s\n", elapsed)
}

func (w *WatchMode) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w.out, format, args...)
}
