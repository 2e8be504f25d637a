package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single config file path and emits a Reloaded
// notification whenever it changes on disk, grounded on the raw
// fsnotify usage pattern other projects in this ecosystem build their
// own hot-reload plumbing on, rather than a heavier wrapper: one
// *fsnotify.Watcher, one goroutine translating its Events channel into
// a domain-specific channel the daemon event loop can fuse in.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	changed chan struct{}
	errs    chan error

	mu     sync.Mutex
	closed bool
}

// NewWatcher starts watching path's parent directory (so the watcher
// survives editors that replace the file via rename-into-place rather
// than in-place write) and returns a Watcher ready to be read from.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}

	dir := dirOf(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", dir, err)
	}

	w := &Watcher{
		path:    path,
		fsw:     fsw,
		changed: make(chan struct{}, 1),
		errs:    make(chan error, 1),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// Changed is signaled (coalesced, non-blocking) each time the watched
// file is written, created, or renamed into place.
func (w *Watcher) Changed() <-chan struct{} { return w.changed }

// Errors surfaces watcher-internal errors (e.g. the watched directory
// was removed).
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[:i]
		}
	}
	return "."
}
