package descriptor

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc receives the re-parsed form after a definition file changes, or
// the parse error when the new contents are invalid. A failed reload never
// replaces the last good form; callers decide whether to surface the error.
type ReloadFunc func(path string, form Form, err error)

// Watcher reloads form definitions when their files change on disk.
type Watcher struct {
	fw     *fsnotify.Watcher
	reload ReloadFunc

	mu    sync.Mutex
	paths map[string]struct{}
	done  chan struct{}
}

// NewWatcher starts a watcher that invokes reload for every changed definition
// file. Close releases the underlying OS watches.
func NewWatcher(reload ReloadFunc) (*Watcher, error) {
	if reload == nil {
		return nil, fmt.Errorf("descriptor: reload callback is required")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("descriptor: create watcher: %w", err)
	}

	w := &Watcher{
		fw:     fw,
		reload: reload,
		paths:  make(map[string]struct{}),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch registers a form definition file. The enclosing directory is watched
// so editors that replace files via rename still trigger reloads.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("descriptor: resolve %s: %w", path, err)
	}

	w.mu.Lock()
	w.paths[abs] = struct{}{}
	w.mu.Unlock()

	if err := w.fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("descriptor: watch %s: %w", abs, err)
	}
	return nil
}

// Close stops the watch loop.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.watched(event.Name) {
				continue
			}
			form, err := LoadFile(event.Name)
			w.reload(event.Name, form, err)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; the next event delivers normally.
		}
	}
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.paths[abs]
	return ok
}
