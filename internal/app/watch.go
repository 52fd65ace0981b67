package app

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a file must stay quiet before it is converted.
// Editors tend to fire several events per save.
const watchDebounce = 100 * time.Millisecond

// Watch runs one full conversion pass over the given paths and then keeps
// converting matching files as they change on disk, until the context is
// canceled. The exit code reflects everything processed along the way.
//
// Watch needs write mode: the results have to land back in the files, there
// is nowhere else for them to go. Rewritten output no longer matches the
// selector patterns, so the write a conversion triggers converts to nothing.
func (a *App) Watch(ctx context.Context, paths []string) int {
	if !a.opts.Write {
		a.errorf("%v", ErrWatchWithoutWrite)
		return 2
	}
	if len(paths) == 0 {
		a.errorf("%v", ErrWatchWithoutPaths)
		return 2
	}

	a.Run(paths)

	w, err := newWatcher(watchDebounce)
	if err != nil {
		a.fail("watch: %v", err)
		return a.exitCode()
	}
	defer w.close()

	for _, path := range paths {
		if err := w.add(path); err != nil {
			a.fail("watch %s: %v", path, err)
			return a.exitCode()
		}
	}
	go w.run(ctx)

	a.infof("watching for changes")
	for {
		select {
		case <-ctx.Done():
			return a.exitCode()
		case err := <-w.errs:
			a.errorf("watch: %v", err)
		case path := <-w.changes:
			if !a.matches(path) {
				continue
			}
			if n := a.processFile(path); n > 0 {
				a.infof("converted %d selector(s) in %s", n, path)
			}
		}
	}
}

// watcher wraps fsnotify with recursive directory registration and per-path
// debouncing, coalescing the burst of events one save produces into a single
// change notification.
type watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration

	changes chan string
	errs    chan error

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

func newWatcher(debounce time.Duration) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &watcher{
		fsw:      fsw,
		debounce: debounce,
		changes:  make(chan string, 64),
		errs:     make(chan error, 8),
		pending:  make(map[string]*time.Timer),
	}, nil
}

// add registers a file or directory. Directories are walked so every
// subdirectory is watched too, skipping hidden ones.
func (w *watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fsw.Add(abs)
	}

	return filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != abs && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

// run forwards fsnotify traffic until the context is canceled or the
// underlying watcher closes.
func (w *watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// handleEvent debounces one fsnotify event. Newly created directories are
// registered so files appearing in them are seen; hidden paths are ignored,
// which also covers the temporary files of in-place writes.
func (w *watcher) handleEvent(ev fsnotify.Event) {
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.add(ev.Name); err != nil {
				w.sendError(err)
			}
			return
		}
	}
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.pending[ev.Name]; ok {
		t.Reset(w.debounce)
		return
	}
	name := ev.Name
	w.pending[name] = time.AfterFunc(w.debounce, func() {
		w.fire(name)
	})
}

// fire emits the change for a path whose debounce window elapsed.
func (w *watcher) fire(name string) {
	w.mu.Lock()
	delete(w.pending, name)
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	select {
	case w.changes <- name:
	default:
		// Channel full, drop the change; the next save will come around.
	}
}

func (w *watcher) sendError(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

// close stops the watcher and cancels the pending timers.
func (w *watcher) close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for name, t := range w.pending {
		t.Stop()
		delete(w.pending, name)
	}
	w.mu.Unlock()

	return w.fsw.Close()
}
