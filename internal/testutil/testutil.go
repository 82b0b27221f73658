// Package testutil provides testing utilities and helpers for backend tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTrasher is a mock implementation of workspace.Trasher for testing.
type MockTrasher struct {
	mock.Mock
}

// Trash mocks the Trash method.
func (m *MockTrasher) Trash(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// MockOpener is a mock implementation of workspace.Opener for testing.
type MockOpener struct {
	mock.Mock
}

// Open mocks the Open method.
func (m *MockOpener) Open(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// MockRecorder is a mock implementation of workspace.Recorder for testing.
type MockRecorder struct {
	mock.Mock
}

// RecordFileOperation mocks the RecordFileOperation method.
func (m *MockRecorder) RecordFileOperation(op, status string, duration time.Duration) {
	m.Called(op, status, duration)
}

// NewMockTrasher creates a trasher that removes the file, like a real trash would.
func NewMockTrasher(t *testing.T) *MockTrasher {
	t.Helper()
	m := new(MockTrasher)

	// Default behavior: the file disappears from the workspace
	m.On("Trash", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			os.Remove(args.String(1))
		}).
		Return(nil).
		Maybe()

	return m
}

// NewMockOpener creates an opener that always succeeds.
func NewMockOpener(t *testing.T) *MockOpener {
	t.Helper()
	m := new(MockOpener)
	m.On("Open", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// NewWorkspace creates an empty workspace directory that is removed after the test.
func NewWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	// Resolve symlinked temp roots (macOS /var -> /private/var)
	real, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	return real
}

// WriteFile writes content to name under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ReadFile returns the content of path as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// AssertMissing fails the test if path exists.
func AssertMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Lstat(path)
	require.True(t, os.IsNotExist(err), "expected %s to be missing, got %v", path, err)
}
