// Package watcher reports debounced changes to HTML files in the active
// workspace.
package watcher

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/htmldesk/internal/shared/paths"
	"github.com/GriffinCanCode/htmldesk/internal/shared/types"
)

// DefaultDebounce groups bursts of editor writes into one notification
const DefaultDebounce = 200 * time.Millisecond

// Handler receives a batch of changes for workspace
type Handler func(workspace string, changes []types.FileChange)

// Filter decides whether a path is reported
type Filter func(path string) bool

// HTMLFilter accepts .html files
func HTMLFilter(path string) bool {
	return strings.HasSuffix(path, paths.HTMLExt)
}

// NoHiddenFilter rejects dotfiles such as editor swap and temp files
func NoHiddenFilter(path string) bool {
	return !strings.HasPrefix(filepath.Base(path), ".")
}

// Watcher follows a single workspace directory (non-recursively). Calling
// Watch again re-targets it; pending changes for the old workspace are
// dropped.
type Watcher struct {
	delay    time.Duration
	logger   *zap.Logger
	filters  []Filter
	handlers []Handler
	current  *target
	mu       sync.RWMutex
}

// target is one fsnotify watcher and its debouncer
type target struct {
	workspace string
	fsw       *fsnotify.Watcher
	debouncer *debouncer
	done      chan struct{}
	stopped   sync.WaitGroup
}

// New creates a watcher; delay <= 0 means DefaultDebounce
func New(delay time.Duration, logger *zap.Logger) *Watcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		delay:   delay,
		logger:  logger,
		filters: []Filter{HTMLFilter, NoHiddenFilter},
	}
}

// Subscribe registers a handler for change batches
func (w *Watcher) Subscribe(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Workspace returns the directory being watched, or ""
func (w *Watcher) Workspace() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return ""
	}
	return w.current.workspace
}

// Watch starts watching workspace, replacing any previous target
func (w *Watcher) Watch(workspace string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(workspace); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", workspace, err)
	}

	t := &target{
		workspace: workspace,
		fsw:       fsw,
		done:      make(chan struct{}),
	}
	t.debouncer = newDebouncer(w.delay, func(changes []types.FileChange) {
		w.dispatch(t.workspace, changes)
	})

	w.mu.Lock()
	old := w.current
	w.current = t
	w.mu.Unlock()

	if old != nil {
		old.stop()
	}

	t.stopped.Add(1)
	go w.loop(t)

	w.logger.Info("Watching workspace", zap.String("workspace", workspace), zap.Duration("debounce", w.delay))
	return nil
}

// Close stops watching
func (w *Watcher) Close() error {
	w.mu.Lock()
	old := w.current
	w.current = nil
	w.mu.Unlock()

	if old == nil {
		return nil
	}
	return old.stop()
}

func (t *target) stop() error {
	close(t.done)
	err := t.fsw.Close()
	t.stopped.Wait()
	t.debouncer.stop()
	return err
}

func (w *Watcher) loop(t *target) {
	defer t.stopped.Done()
	for {
		select {
		case <-t.done:
			return
		case event, ok := <-t.fsw.Events:
			if !ok {
				return
			}
			if change, ok := w.convert(event); ok {
				t.debouncer.add(change)
			}
		case err, ok := <-t.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", zap.String("workspace", t.workspace), zap.Error(err))
		}
	}
}

func (w *Watcher) convert(event fsnotify.Event) (types.FileChange, bool) {
	w.mu.RLock()
	filters := w.filters
	w.mu.RUnlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return types.FileChange{}, false
		}
	}

	var kind types.ChangeType
	switch {
	case event.Has(fsnotify.Create):
		kind = types.ChangeCreated
	case event.Has(fsnotify.Write):
		kind = types.ChangeModified
	case event.Has(fsnotify.Remove):
		kind = types.ChangeDeleted
	case event.Has(fsnotify.Rename):
		kind = types.ChangeRenamed
	default:
		// chmod only
		return types.FileChange{}, false
	}

	return types.FileChange{
		Type: kind,
		Name: filepath.Base(event.Name),
		Path: event.Name,
		At:   time.Now(),
	}, true
}

func (w *Watcher) dispatch(workspace string, changes []types.FileChange) {
	w.mu.RLock()
	handlers := w.handlers
	stale := w.current == nil || w.current.workspace != workspace
	w.mu.RUnlock()

	if stale {
		return
	}
	for _, h := range handlers {
		h(workspace, changes)
	}
}

// debouncer collects changes until delay passes without a new one
type debouncer struct {
	delay   time.Duration
	flushFn func([]types.FileChange)
	pending map[string]types.FileChange
	timer   *time.Timer
	closed  bool
	mutex   sync.Mutex
}

func newDebouncer(delay time.Duration, flush func([]types.FileChange)) *debouncer {
	return &debouncer{
		delay:   delay,
		flushFn: flush,
		pending: make(map[string]types.FileChange),
	}
}

func (d *debouncer) add(change types.FileChange) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.closed {
		return
	}

	// A file created and then written in the same burst is still new
	if prev, ok := d.pending[change.Path]; ok && prev.Type == types.ChangeCreated && change.Type == types.ChangeModified {
		change.Type = types.ChangeCreated
	}
	d.pending[change.Path] = change

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.mutex.Lock()
	if d.closed || len(d.pending) == 0 {
		d.mutex.Unlock()
		return
	}
	changes := make([]types.FileChange, 0, len(d.pending))
	for _, c := range d.pending {
		changes = append(changes, c)
	}
	d.pending = make(map[string]types.FileChange)
	d.mutex.Unlock()

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	d.flushFn(changes)
}

func (d *debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
}
