package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// MaxRecent caps the recent workspace history
const MaxRecent = 10

// Settings is the persisted document
type Settings struct {
	Workspace        string   `json:"workspace,omitempty"`
	RecentWorkspaces []string `json:"recentWorkspaces,omitempty"`
}

// Store reads and writes settings at a fixed path. All methods are safe for
// concurrent use.
type Store struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewStore creates a store backed by the JSON file at path
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the settings file location
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored settings. A missing file yields empty settings;
// so does an unreadable or malformed one, after logging a warning.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// Save writes settings, creating the parent directory if needed
func (s *Store) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(settings)
}

// SaveWorkspace records dir as the current workspace and moves it to the
// front of the recent list.
func (s *Store) SaveWorkspace(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.load()
	settings.Workspace = dir
	settings.RecentWorkspaces = pushRecent(settings.RecentWorkspaces, dir)
	return s.save(settings)
}

// CurrentWorkspace returns the saved workspace, if any
func (s *Store) CurrentWorkspace() (string, bool) {
	settings, _ := s.Load()
	return settings.Workspace, settings.Workspace != ""
}

// RecentWorkspaces returns the history, most recent first
func (s *Store) RecentWorkspaces() []string {
	settings, _ := s.Load()
	recent := settings.RecentWorkspaces
	if recent == nil {
		return []string{}
	}
	return recent
}

// ForgetWorkspace drops dir from the history. If it is the current
// workspace, the selection is cleared too.
func (s *Store) ForgetWorkspace(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir = filepath.Clean(dir)
	settings := s.load()
	if settings.Workspace == dir {
		settings.Workspace = ""
	}
	settings.RecentWorkspaces = remove(settings.RecentWorkspaces, dir)
	return s.save(settings)
}

func (s *Store) load() Settings {
	var settings Settings

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to read settings, using defaults", zap.String("path", s.path), zap.Error(err))
		}
		return Settings{}
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		s.logger.Warn("Invalid settings file, using defaults", zap.String("path", s.path), zap.Error(err))
		return Settings{}
	}

	// Older or hand-edited files may carry duplicates or a longer list
	settings.RecentWorkspaces = normalize(settings.RecentWorkspaces)
	return settings
}

func (s *Store) save(settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Debug("Saved settings", zap.String("path", s.path), zap.String("workspace", settings.Workspace))
	return nil
}

// pushRecent puts dir first, drops any older copy and truncates to MaxRecent
func pushRecent(recent []string, dir string) []string {
	out := make([]string, 0, MaxRecent)
	out = append(out, dir)
	for _, w := range recent {
		if len(out) == MaxRecent {
			break
		}
		if w != dir {
			out = append(out, w)
		}
	}
	return out
}

func remove(recent []string, dir string) []string {
	out := make([]string, 0, len(recent))
	for _, w := range recent {
		if w != dir {
			out = append(out, w)
		}
	}
	return out
}

func normalize(recent []string) []string {
	seen := make(map[string]struct{}, len(recent))
	out := make([]string, 0, len(recent))
	for _, w := range recent {
		if _, dup := seen[w]; dup || w == "" {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
		if len(out) == MaxRecent {
			break
		}
	}
	return out
}
