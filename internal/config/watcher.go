package config

import (
	"context"
	"os"
	"sync"
	"time"
)

// Handler is called with the freshly loaded configuration after the watched
// file changes.
type Handler func(Config)

// Watcher reloads the configuration file when it changes on disk. It polls
// modification times so it works on filesystems without change notification.
type Watcher struct {
	path     string
	handler  Handler
	interval time.Duration
	debounce time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithDebounce sets how long the file must be stable before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher for one configuration file.
func NewWatcher(path string, handler Handler, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     path,
		handler:  handler,
		interval: 500 * time.Millisecond,
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. It is a no-op if the watcher is already running.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.poll(ctx)
}

// Stop stops watching and waits for the poll loop to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// poll watches the file's modification time. A detected change is emitted
// only after the file has been stable for the debounce duration, so a reload
// never sees a half-written file.
func (w *Watcher) poll(ctx context.Context) {
	defer w.wg.Done()

	lastMod := w.modTime()
	var pending time.Time

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mod := w.modTime()
			if !mod.Equal(lastMod) {
				lastMod = mod
				pending = time.Now()
				continue
			}
			if !pending.IsZero() && time.Since(pending) >= w.debounce {
				pending = time.Time{}
				w.reload()
			}
		}
	}
}

// modTime returns the file's modification time, or the zero time if the file
// does not exist.
func (w *Watcher) modTime() time.Time {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// reload loads the file and hands the result to the handler. A failed load
// keeps the previous configuration.
func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		return
	}
	w.handler(cfg)
}
