package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/htmldesk/internal/domain/settings"
	"github.com/GriffinCanCode/htmldesk/internal/domain/workspace"
	"github.com/GriffinCanCode/htmldesk/internal/shared/types"
)

// ErrNoWorkspace is returned when an operation needs a workspace and none
// has been selected.
var ErrNoWorkspace = errors.New("no workspace selected")

// Watcher is the subset of watcher.Watcher the manager drives
type Watcher interface {
	Watch(workspace string) error
	Close() error
}

// SwitchRecorder counts workspace changes
type SwitchRecorder interface {
	IncWorkspaceSwitches()
}

// Listener is called after the active workspace changes ("" when cleared)
type Listener func(workspace string)

// Manager orchestrates the active workspace lifecycle: selection,
// persistence, and the change watcher that follows it.
type Manager struct {
	store     *settings.Store
	watcher   Watcher
	metrics   SwitchRecorder
	logger    *zap.Logger
	listeners []Listener
	current   string
	mu        sync.RWMutex
}

// NewManager creates a workspace manager. watcher may be nil.
func NewManager(store *settings.Store, watcher Watcher, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:   store,
		watcher: watcher,
		logger:  logger,
	}
}

// WithMetrics attaches a switch counter
func (m *Manager) WithMetrics(r SwitchRecorder) *Manager {
	m.metrics = r
	return m
}

// OnChange registers a listener for workspace changes
func (m *Manager) OnChange(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Restore activates the startup workspace. A non-empty override is selected
// (and saved) like a user choice; otherwise the saved workspace is reused if
// it is still accessible.
func (m *Manager) Restore(override string) error {
	if override != "" {
		_, err := m.Select(override)
		return err
	}

	saved, ok := m.store.CurrentWorkspace()
	if !ok {
		return nil
	}
	abs, err := workspace.EnsureWorkspace(saved)
	if err != nil {
		m.logger.Warn("Saved workspace is no longer accessible", zap.String("workspace", saved), zap.Error(err))
		return nil
	}

	m.activate(abs)
	m.logger.Info("Restored workspace", zap.String("workspace", abs))
	return nil
}

// Select validates dir, makes it the active workspace and records it in
// the recent history. It returns the absolute path.
func (m *Manager) Select(dir string) (string, error) {
	abs, err := workspace.EnsureWorkspace(dir)
	if err != nil {
		return "", err
	}
	if err := m.store.SaveWorkspace(abs); err != nil {
		return "", fmt.Errorf("failed to save workspace: %w", err)
	}

	m.activate(abs)
	if m.metrics != nil {
		m.metrics.IncWorkspaceSwitches()
	}
	m.logger.Info("Selected workspace", zap.String("workspace", abs))
	return abs, nil
}

// Current returns the active workspace
func (m *Manager) Current() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.current != ""
}

// Require returns the active workspace or ErrNoWorkspace
func (m *Manager) Require() (string, error) {
	ws, ok := m.Current()
	if !ok {
		return "", ErrNoWorkspace
	}
	return ws, nil
}

// Info reports the active workspace and the recent history
func (m *Manager) Info() types.WorkspaceInfo {
	info := types.WorkspaceInfo{Recent: m.store.RecentWorkspaces()}
	if ws, ok := m.Current(); ok {
		info.Workspace = &ws
	}
	return info
}

// Forget removes dir from the history, deactivating it if active
func (m *Manager) Forget(dir string) error {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid workspace path: %w", err)
	}
	if err := m.store.ForgetWorkspace(dir); err != nil {
		return err
	}

	m.mu.Lock()
	active := m.current == dir
	if active {
		m.current = ""
	}
	m.mu.Unlock()

	if active {
		m.released()
	}
	return nil
}

// released stops watching and tells listeners nothing is active
func (m *Manager) released() {
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.logger.Warn("Failed to stop watcher", zap.Error(err))
		}
	}
	m.notify("")
}

// Clear empties the history and deactivates the current workspace
func (m *Manager) Clear() error {
	if err := m.store.Save(settings.Settings{}); err != nil {
		return fmt.Errorf("failed to clear workspace history: %w", err)
	}

	m.mu.Lock()
	active := m.current != ""
	m.current = ""
	m.mu.Unlock()

	if active {
		m.released()
	}
	m.logger.Info("Cleared workspace history")
	return nil
}

// Close stops the watcher
func (m *Manager) Close() error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Close()
}

func (m *Manager) activate(abs string) {
	m.mu.Lock()
	m.current = abs
	m.mu.Unlock()

	if m.watcher != nil {
		// Watching is best effort; file operations work without it
		if err := m.watcher.Watch(abs); err != nil {
			m.logger.Warn("Failed to watch workspace", zap.String("workspace", abs), zap.Error(err))
		}
	}
	m.notify(abs)
}

func (m *Manager) notify(ws string) {
	m.mu.RLock()
	listeners := m.listeners
	m.mu.RUnlock()

	for _, l := range listeners {
		l(ws)
	}
}
