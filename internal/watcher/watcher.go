// Package watcher reports when a prompt file is saved, coalescing the
// bursts of events that editors produce on a single save.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/SoloveyLS/xml-prompt-manager/internal/log"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors one file. It watches the parent directory so that
// editors which save by writing a temp file and renaming are still seen.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	changes   chan struct{}
}

// New creates a watcher for path. A non-positive debounce uses
// DefaultDebounce.
func New(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsWatcher: fsw,
		path:      abs,
		debounce:  debounce,
		changes:   make(chan struct{}, 1),
	}, nil
}

// Watch starts delivering change signals until ctx is done, then closes
// the channel and releases the underlying watcher.
func (w *Watcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		_ = w.fsWatcher.Close()
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}
	log.Debug(log.CatWatcher, "Watching file", "path", w.path)
	go w.loop(ctx)
	return w.changes, nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.changes)
	defer func() { _ = w.fsWatcher.Close() }()

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
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watch error", err, "path", w.path)
		}
	}
}

// relevant reports writes, creates and renames onto the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.path
}
