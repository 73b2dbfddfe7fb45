// SPDX-License-Identifier: Unlicense OR MIT

// Package watch reports changes to a set of source files.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to a fixed set of files. It watches the
// parent directories so that files replaced by editors on save are
// still reported.
type Watcher struct {
	watcher *fsnotify.Watcher
	// files maps cleaned absolute paths to the paths given to New.
	files  map[string]string
	events chan string
	errors chan error
	done   chan struct{}
	wg     sync.WaitGroup
}

// New watches files. Every write or creation of one of them is
// reported on Events with the path as given.
func New(files []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		watcher: fw,
		files:   make(map[string]string),
		events:  make(chan string),
		errors:  make(chan error),
		done:    make(chan struct{}),
	}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch: %w", err)
		}
		w.files[abs] = f
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch: %s: %w", dir, err)
		}
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Events returns the channel of changed file paths. It is closed by
// Close.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Errors returns the channel of watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops watching. Pending events are dropped.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			path, ok := w.files[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			select {
			case w.events <- path:
			case <-w.done:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}
