package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/htmldesk/internal/shared/types"
)

type collector struct {
	mu      sync.Mutex
	batches map[string][][]types.FileChange
}

func newCollector() *collector {
	return &collector{batches: make(map[string][][]types.FileChange)}
}

func (c *collector) handle(workspace string, changes []types.FileChange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches[workspace] = append(c.batches[workspace], changes)
}

func (c *collector) changes(workspace string) []types.FileChange {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []types.FileChange
	for _, b := range c.batches[workspace] {
		out = append(out, b...)
	}
	return out
}

func (c *collector) batchCount(workspace string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batches[workspace])
}

func hasChange(changes []types.FileChange, name string, kind types.ChangeType) bool {
	for _, c := range changes {
		if c.Name == name && c.Type == kind {
			return true
		}
	}
	return false
}

func TestFilters(t *testing.T) {
	assert.True(t, HTMLFilter("/ws/index.html"))
	assert.False(t, HTMLFilter("/ws/index.htm"))
	assert.False(t, HTMLFilter("/ws/style.css"))
	assert.True(t, NoHiddenFilter("/ws/index.html"))
	assert.False(t, NoHiddenFilter("/ws/.index.html.tmp-123"))
}

func TestWatcherReportsHTMLChanges(t *testing.T) {
	ws := t.TempDir()
	c := newCollector()

	w := New(50*time.Millisecond, nil)
	w.Subscribe(c.handle)
	require.NoError(t, w.Watch(ws))
	defer w.Close()
	assert.Equal(t, ws, w.Workspace())

	require.NoError(t, os.WriteFile(filepath.Join(ws, "index.html"), []byte("<p>hi</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ws, "notes.txt"), []byte("ignored"), 0o644))

	assert.Eventually(t, func() bool {
		return hasChange(c.changes(ws), "index.html", types.ChangeCreated)
	}, 2*time.Second, 20*time.Millisecond)

	for _, change := range c.changes(ws) {
		assert.NotEqual(t, "notes.txt", change.Name)
	}

	require.NoError(t, os.Remove(filepath.Join(ws, "index.html")))
	assert.Eventually(t, func() bool {
		return hasChange(c.changes(ws), "index.html", types.ChangeDeleted)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	ws := t.TempDir()
	c := newCollector()

	w := New(150*time.Millisecond, nil)
	w.Subscribe(c.handle)
	require.NoError(t, w.Watch(ws))
	defer w.Close()

	path := filepath.Join(ws, "page.html")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0o644))
	}

	assert.Eventually(t, func() bool { return c.batchCount(ws) >= 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, 1, c.batchCount(ws))
	changes := c.changes(ws)
	require.Len(t, changes, 1)
	assert.Equal(t, types.ChangeCreated, changes[0].Type)
}

func TestWatcherRetarget(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	c := newCollector()

	w := New(50*time.Millisecond, nil)
	w.Subscribe(c.handle)
	require.NoError(t, w.Watch(first))
	require.NoError(t, w.Watch(second))
	defer w.Close()
	assert.Equal(t, second, w.Workspace())

	require.NoError(t, os.WriteFile(filepath.Join(first, "old.html"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(second, "new.html"), nil, 0o644))

	assert.Eventually(t, func() bool {
		return hasChange(c.changes(second), "new.html", types.ChangeCreated)
	}, 2*time.Second, 20*time.Millisecond)
	assert.Empty(t, c.changes(first))
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New(0, nil)
	err := w.Watch(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.Empty(t, w.Workspace())
	assert.NoError(t, w.Close())
}

func TestDebouncerKeepsCreatedOverModified(t *testing.T) {
	var got []types.FileChange
	done := make(chan struct{})
	d := newDebouncer(10*time.Millisecond, func(changes []types.FileChange) {
		got = changes
		close(done)
	})

	d.add(types.FileChange{Type: types.ChangeCreated, Name: "a.html", Path: "/ws/a.html"})
	d.add(types.FileChange{Type: types.ChangeModified, Name: "a.html", Path: "/ws/a.html"})
	d.add(types.FileChange{Type: types.ChangeModified, Name: "b.html", Path: "/ws/b.html"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debouncer did not flush")
	}

	require.Len(t, got, 2)
	assert.Equal(t, types.ChangeCreated, got[0].Type)
	assert.Equal(t, "/ws/b.html", got[1].Path)
	assert.Equal(t, types.ChangeModified, got[1].Type)
}
