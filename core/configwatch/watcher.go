package configwatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes to individual files. It watches each file's
// directory so that editors replacing the file by rename are still seen.
// Bursts of events for one file within the debounce window collapse into a
// single callback.
type Watcher struct {
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	entries map[string]func(path string)
	dirs    map[string]bool
	fsw     *fsnotify.Watcher
}

// New creates a Watcher.
func New(debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		debounce: debounce,
		logger:   logger,
		entries:  make(map[string]func(string)),
		dirs:     make(map[string]bool),
		fsw:      fsw,
	}, nil
}

// Watch registers cb for path. The file does not need to exist yet, but its
// directory does.
func (w *Watcher) Watch(path string, cb func(path string)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.entries[abs] = cb
	return nil
}

// Run delivers callbacks until ctx is cancelled, then closes the watcher.
// It blocks, so call it in a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()

	fire := make(chan firing)
	d := newDebouncer(w.debounce, func(f firing) {
		select {
		case fire <- f:
		case <-ctx.Done():
		}
	})
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(ev.Name)
			if w.callback(path) == nil {
				continue
			}
			d.schedule(path)

		case f := <-fire:
			if !d.done(f) {
				continue
			}
			if cb := w.callback(f.path); cb != nil {
				w.logger.Info("watched file changed", zap.String("path", f.path))
				cb(f.path)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

type firing struct {
	path string
	gen  uint64
}

// debouncer keeps one timer per path. Scheduling again replaces the timer
// and bumps the generation, so a timer that already fired and is waiting to
// deliver is recognized as stale. Only the Run goroutine may use it.
type debouncer struct {
	delay   time.Duration
	send    func(firing)
	gen     uint64
	pending map[string]pendingTimer
}

type pendingTimer struct {
	timer *time.Timer
	gen   uint64
}

func newDebouncer(delay time.Duration, send func(firing)) *debouncer {
	return &debouncer{delay: delay, send: send, pending: make(map[string]pendingTimer)}
}

func (d *debouncer) schedule(path string) {
	if p, ok := d.pending[path]; ok {
		p.timer.Stop()
	}
	d.gen++
	f := firing{path: path, gen: d.gen}
	d.pending[path] = pendingTimer{
		timer: time.AfterFunc(d.delay, func() { d.send(f) }),
		gen:   f.gen,
	}
}

// done reports whether f is the latest timer for its path and clears it.
func (d *debouncer) done(f firing) bool {
	p, ok := d.pending[f.path]
	if !ok || p.gen != f.gen {
		return false
	}
	delete(d.pending, f.path)
	return true
}

func (d *debouncer) stop() {
	for _, p := range d.pending {
		p.timer.Stop()
	}
}

func (w *Watcher) callback(path string) func(string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entries[path]
}
