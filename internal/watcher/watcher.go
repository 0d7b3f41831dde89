// Package watcher reports settled file changes under the library root so new
// release folders can be prepared without an explicit request.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/relprep/relprep/internal/logger"
)

// Watcher monitors a directory tree with fsnotify and debounces writes: a
// file is reported only after its size and mtime have stayed the same for
// SettleDelay.
type Watcher struct {
	logger  *logger.Logger
	opts    Options
	fsw     *fsnotify.Watcher
	root    string
	pending map[string]*pendingEvent
	known   map[string]struct{}
	mu      sync.Mutex

	events   chan Event
	errors   chan error
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// emitMu guards sends on events against Stop closing the channel.
	emitMu  sync.RWMutex
	stopped bool
}

// pendingEvent tracks a file that may still be changing.
type pendingEvent struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a watcher. Call Watch to add the library root, then Start.
func New(log *logger.Logger, opts Options) (*Watcher, error) {
	if log == nil {
		log = logger.Discard()
	}
	opts.setDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		logger:  log.Component("watcher"),
		opts:    opts,
		fsw:     fsw,
		pending: make(map[string]*pendingEvent),
		known:   make(map[string]struct{}),
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Watch adds a directory and all of its subdirectories. Files already
// present are remembered so later writes to them are reported as modified.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}

	w.mu.Lock()
	if w.root == "" {
		w.root = path
	}
	w.mu.Unlock()

	return w.watchDir(path, false)
}

// watchDir walks path adding a watch per directory. When announce is set
// (a directory created after Watch), files found inside are settled as new.
func (w *Watcher) watchDir(path string, announce bool) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("failed to access path", "path", p, "error", err)
			return nil
		}

		if p != path && w.ignored(p) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() {
			if announce {
				w.startSettling(p)
			} else {
				w.mu.Lock()
				w.known[p] = struct{}{}
				w.mu.Unlock()
			}
			return nil
		}

		if err := w.fsw.Add(p); err != nil {
			w.logger.Error("failed to add watch", "path", p, "error", err)
			return nil
		}
		w.logger.Debug("added watch", "path", p)
		return nil
	})
}

// ignored matches the path relative to the watched root, so a root that
// itself lives under a hidden directory is still watched.
func (w *Watcher) ignored(path string) bool {
	w.mu.Lock()
	root := w.root
	w.mu.Unlock()

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return w.opts.shouldIgnore(rel)
}

// Start processes events until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.wg.Add(1)
	go w.processEvents(ctx)

	select {
	case <-ctx.Done():
	case <-w.done:
	}
	return nil
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("dropping watcher error", "error", err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name
	if w.ignored(path) {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			// Files copied in before the watch was added produce no events of their own.
			if err := w.watchDir(path, true); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.cancelPending(path)
		w.mu.Lock()
		_, seen := w.known[path]
		delete(w.known, path)
		w.mu.Unlock()
		if seen {
			w.emit(Event{Type: EventRemoved, Path: path})
		}
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.startSettling(path)
	}
}

func (w *Watcher) startSettling(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
	}
	p := &pendingEvent{size: info.Size(), modTime: info.ModTime()}
	p.timer = time.AfterFunc(w.opts.SettleDelay, func() { w.checkSettled(path) })
	w.pending[path] = p
}

func (w *Watcher) checkSettled(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok {
		w.mu.Unlock()
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		_, seen := w.known[path]
		delete(w.known, path)
		w.mu.Unlock()
		if seen {
			w.emit(Event{Type: EventRemoved, Path: path})
		}
		return
	}

	if info.Size() != p.size || !info.ModTime().Equal(p.modTime) {
		p.size, p.modTime = info.Size(), info.ModTime()
		p.timer = time.AfterFunc(w.opts.SettleDelay, func() { w.checkSettled(path) })
		w.mu.Unlock()
		return
	}

	delete(w.pending, path)
	typ := EventAdded
	if _, seen := w.known[path]; seen {
		typ = EventModified
	}
	w.known[path] = struct{}{}
	w.mu.Unlock()

	w.emit(Event{Type: typ, Path: path, Size: info.Size(), ModTime: info.ModTime()})
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) emit(event Event) {
	w.emitMu.RLock()
	defer w.emitMu.RUnlock()
	if w.stopped {
		return
	}
	select {
	case w.events <- event:
	case <-w.done:
	}
}

// Events returns the channel of settled events. It is closed by Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of fsnotify errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop releases the fsnotify handle and closes the event channels. It is safe
// to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		for _, p := range w.pending {
			p.timer.Stop()
		}
		clear(w.pending)
		w.mu.Unlock()

		err = w.fsw.Close()
		w.wg.Wait()

		w.emitMu.Lock()
		w.stopped = true
		w.emitMu.Unlock()

		close(w.events)
		close(w.errors)
	})
	return err
}
