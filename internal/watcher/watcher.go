package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/fsnotify/fsnotify"
)

// RenderFunc rebuilds and prints the report. Errors are logged; the Watcher
// keeps running.
type RenderFunc func(ctx context.Context) error

// Watcher calls a RenderFunc whenever one of a fixed set of files is written,
// created or renamed into place.
type Watcher struct {
	paths    map[string]struct{}
	dirs     []string
	debounce time.Duration
	render   RenderFunc

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	renders int
}

// New creates a Watcher for paths. Nothing is watched until Start.
func New(paths []string, debounce time.Duration, render RenderFunc) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	if render == nil {
		return nil, errors.New("render func cannot be nil")
	}
	if debounce <= 0 {
		return nil, fmt.Errorf("invalid debounce: %s (must be positive)", debounce)
	}

	w := &Watcher{
		paths:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
		render:   render,
		stopCh:   make(chan struct{}),
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.paths[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}

	return w, nil
}

// Start subscribes to the input directories and begins processing events in
// the background.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		clog.FromContext(ctx).Debugf("watching %s", dir)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop(ctx)

	return nil
}

// loop debounces matching events and renders when the timer fires. It exits
// on Stop or when ctx is cancelled.
func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	log := clog.FromContext(ctx)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			log.Debugf("change detected: %s", ev)
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warnf("file watcher error: %v", err)

		case <-timer.C:
			w.mu.Lock()
			w.renders++
			w.mu.Unlock()

			if err := w.render(ctx); err != nil {
				log.Errorf("re-render failed: %v", err)
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}

// relevant reports whether ev touches one of the watched files in a way that
// may change its content.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if _, ok := w.paths[filepath.Clean(ev.Name)]; !ok {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Renders returns how many debounced renders have run.
func (w *Watcher) Renders() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renders
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	select {
	case <-w.stopCh:
		return nil
	default:
		close(w.stopCh)
	}

	var err error
	if w.fsw != nil {
		err = w.fsw.Close()
	}
	w.wg.Wait()
	return err
}
