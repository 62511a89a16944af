// Package watch re-runs a callback when a database file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/dynquery/internal/debug"
)

// DefaultDelay is how long the watcher waits for writes to settle.
const DefaultDelay = 500 * time.Millisecond

// Watcher watches a SQLite database file and its write-ahead log.
type Watcher struct {
	files   map[string]struct{}
	delay   time.Duration
	watcher *fsnotify.Watcher
	log     *slog.Logger
}

// New watches path. Writes to path-wal and path-journal count as changes
// too, since committed transactions may not touch the main file yet.
func New(path string, delay time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory; the WAL file may not exist yet.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		files: map[string]struct{}{
			absPath:              {},
			absPath + "-wal":     {},
			absPath + "-journal": {},
		},
		delay:   delay,
		watcher: watcher,
		log:     debug.Logger().With("component", "watch", "file", absPath),
	}, nil
}

// Run calls fn once, then again after each settled change, until ctx is
// done. Errors from fn after the first call are logged, not returned.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return fmt.Errorf("initial run failed: %w", err)
	}

	debounceTimer := time.NewTimer(w.delay)
	debounceTimer.Stop()
	defer debounceTimer.Stop()
	var debounceCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.tracks(event.Name) {
				continue
			}
			w.log.Debug("file changed", "event", event.String())
			debounceTimer.Reset(w.delay)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceCh = nil
			if err := fn(ctx); err != nil {
				w.log.Error("watch callback failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) tracks(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
