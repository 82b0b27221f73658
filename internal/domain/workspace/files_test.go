package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/htmldesk/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *testutil.MockTrasher, *testutil.MockOpener) {
	t.Helper()
	trash := testutil.NewMockTrasher(t)
	opener := testutil.NewMockOpener(t)
	return NewService(trash, opener, nil), trash, opener
}

func strPtr(s string) *string { return &s }

func TestEnsureWorkspace(t *testing.T) {
	ws := testutil.NewWorkspace(t)

	abs, err := EnsureWorkspace(ws)
	require.NoError(t, err)
	assert.Equal(t, ws, abs)

	entries, err := os.ReadDir(ws)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe must be cleaned up")

	_, err = EnsureWorkspace(filepath.Join(ws, "missing"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access workspace")

	file := testutil.WriteFile(t, ws, "plain.txt", "x")
	_, err = EnsureWorkspace(file)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestListFiles(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)

	testutil.WriteFile(t, ws, "b.html", "<title>B</title>")
	testutil.WriteFile(t, ws, "A.html", "<title> Alpha </title>")
	testutil.WriteFile(t, ws, "notes.txt", "skip")
	testutil.WriteFile(t, ws, "page.HTML", "skip")
	testutil.WriteFile(t, ws, "nested/c.html", "skip")
	require.NoError(t, os.Mkdir(filepath.Join(ws, "dir.html"), 0o755))

	items, err := svc.List(context.Background(), ws, ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "A.html", items[0].Name)
	assert.Equal(t, "b.html", items[1].Name)
	assert.Equal(t, filepath.Join(ws, "A.html"), items[0].Path)
	assert.Equal(t, int64(len("<title> Alpha </title>")), items[0].Size)
	assert.NotZero(t, items[0].ModTime)
	assert.Empty(t, items[0].Title)

	items, err = svc.List(context.Background(), ws, ListOptions{Titles: true})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", items[0].Title)
	assert.Equal(t, "B", items[1].Title)
}

func TestListEmptyWorkspace(t *testing.T) {
	svc, _, _ := newTestService(t)

	items, err := svc.List(context.Background(), testutil.NewWorkspace(t), ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestListSkipsEscapingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	outside := testutil.WriteFile(t, testutil.NewWorkspace(t), "secret.html", "")
	require.NoError(t, os.Symlink(outside, filepath.Join(ws, "leak.html")))
	testutil.WriteFile(t, ws, "ok.html", "")

	items, err := svc.List(context.Background(), ws, ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ok.html", items[0].Name)
}

func TestReadFile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "index.html", "<h1>Héllo</h1>")

	content, err := svc.Read(context.Background(), ws, path)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Héllo</h1>", content)

	content, err = svc.Read(context.Background(), ws, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Héllo</h1>", content)
}

func TestReadErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	require.NoError(t, os.Mkdir(filepath.Join(ws, "dir"), 0o755))

	_, err := svc.Read(context.Background(), ws, "missing.html")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Read(context.Background(), ws, "dir")
	assert.ErrorIs(t, err, ErrIsDirectory)

	_, err = svc.Read(context.Background(), ws, "../outside.html")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestCreateFile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)

	item, err := svc.Create(context.Background(), ws, "about", "<p>about</p>")
	require.NoError(t, err)
	assert.Equal(t, "about.html", item.Name)
	assert.Equal(t, filepath.Join(ws, "about.html"), item.Path)
	assert.Equal(t, int64(12), item.Size)
	assert.Equal(t, "<p>about</p>", testutil.ReadFile(t, item.Path))

	item, err = svc.Create(context.Background(), ws, "contact.html", "")
	require.NoError(t, err)
	assert.Equal(t, "contact.html", item.Name)
	assert.Zero(t, item.Size)
}

func TestCreateRejectsExisting(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "index.html", "original")

	_, err := svc.Create(context.Background(), ws, "index", "replacement")
	assert.ErrorIs(t, err, ErrFileExists)
	assert.Equal(t, "original", testutil.ReadFile(t, path))
}

func TestCreateRejectsInvalidName(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)

	for _, name := range []string{"", "my page", "../escape", "sub/page", ".."} {
		_, err := svc.Create(context.Background(), ws, name, "")
		assert.ErrorIs(t, err, ErrInvalidFilename, name)
	}

	entries, err := os.ReadDir(ws)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateContent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "index.html", "old")

	item, err := svc.Update(context.Background(), ws, path, nil, "new content")
	require.NoError(t, err)
	assert.Equal(t, path, item.Path)
	assert.Equal(t, "new content", testutil.ReadFile(t, path))

	item, err = svc.Update(context.Background(), ws, path, strPtr(""), "again")
	require.NoError(t, err)
	assert.Equal(t, path, item.Path)
	assert.Equal(t, "again", testutil.ReadFile(t, path))

	entries, err := os.ReadDir(ws)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestUpdateRename(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "draft.html", "old")

	item, err := svc.Update(context.Background(), ws, path, strPtr("final"), "published")
	require.NoError(t, err)
	assert.Equal(t, "final.html", item.Name)
	assert.Equal(t, filepath.Join(ws, "final.html"), item.Path)
	assert.Equal(t, "published", testutil.ReadFile(t, item.Path))
	testutil.AssertMissing(t, path)
}

func TestUpdateRenameConflict(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	src := testutil.WriteFile(t, ws, "a.html", "a")
	dst := testutil.WriteFile(t, ws, "b.html", "b")

	_, err := svc.Update(context.Background(), ws, src, strPtr("b.html"), "changed")
	assert.ErrorIs(t, err, ErrFileExists)
	assert.Equal(t, "a", testutil.ReadFile(t, src))
	assert.Equal(t, "b", testutil.ReadFile(t, dst))
}

func TestUpdateRenameInSubdirectoryStaysThere(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "sub/page.html", "x")

	item, err := svc.Update(context.Background(), ws, path, strPtr("renamed"), "y")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws, "sub", "renamed.html"), item.Path)
}

func TestUpdateRollsBackRenameWhenWriteFails(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	src := testutil.WriteFile(t, ws, "draft.html", "original")

	var wrote string
	replaceFile = func(path, content string, perm os.FileMode) error {
		wrote = path
		return errors.New("disk full")
	}
	t.Cleanup(func() { replaceFile = writeAtomic })

	_, err := svc.Update(context.Background(), ws, src, strPtr("final"), "published")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, filepath.Join(ws, "final.html"), wrote)

	assert.Equal(t, "original", testutil.ReadFile(t, src))
	testutil.AssertMissing(t, filepath.Join(ws, "final.html"))
}

func TestWriteRejectsOversizedContent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "page.html", "x")
	big := strings.Repeat("a", MaxFileSize+1)

	_, err := svc.Create(context.Background(), ws, "big", big)
	assert.ErrorIs(t, err, ErrTooLarge)
	testutil.AssertMissing(t, filepath.Join(ws, "big.html"))

	_, err = svc.Update(context.Background(), ws, path, strPtr("renamed"), big)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, "x", testutil.ReadFile(t, path))
	testutil.AssertMissing(t, filepath.Join(ws, "renamed.html"))

	item, err := svc.Create(context.Background(), ws, "limit", big[:MaxFileSize])
	require.NoError(t, err)
	_, err = svc.Read(context.Background(), ws, item.Path)
	assert.NoError(t, err)
}

func TestUpdateErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "page.html", "x")

	_, err := svc.Update(context.Background(), ws, filepath.Join(ws, "missing.html"), nil, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(context.Background(), ws, path, strPtr("bad name"), "")
	assert.ErrorIs(t, err, ErrInvalidFilename)

	_, err = svc.Update(context.Background(), ws, "/etc/passwd", nil, "")
	assert.ErrorIs(t, err, ErrPathTraversal)
	assert.Equal(t, "x", testutil.ReadFile(t, path))
}

func TestDeleteToTrash(t *testing.T) {
	svc, trash, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "old.html", "")

	require.NoError(t, svc.Delete(context.Background(), ws, path, true))
	trash.AssertCalled(t, "Trash", mock.Anything, path)
	testutil.AssertMissing(t, path)
}

func TestDeletePermanently(t *testing.T) {
	svc, trash, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "old.html", "")

	require.NoError(t, svc.Delete(context.Background(), ws, path, false))
	trash.AssertNotCalled(t, "Trash", mock.Anything, mock.Anything)
	testutil.AssertMissing(t, path)
}

func TestDeleteTrashFailureKeepsFile(t *testing.T) {
	trash := new(testutil.MockTrasher)
	trash.On("Trash", mock.Anything, mock.Anything).Return(errors.New("trash unavailable"))
	svc := NewService(trash, nil, nil)

	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "keep.html", "data")

	err := svc.Delete(context.Background(), ws, path, true)
	assert.ErrorContains(t, err, "trash unavailable")
	assert.Equal(t, "data", testutil.ReadFile(t, path))
}

func TestDeleteErrors(t *testing.T) {
	svc, trash, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	require.NoError(t, os.Mkdir(filepath.Join(ws, "dir"), 0o755))

	assert.ErrorIs(t, svc.Delete(context.Background(), ws, "missing.html", true), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), ws, "dir", false), ErrIsDirectory)
	assert.ErrorIs(t, svc.Delete(context.Background(), ws, "../x.html", false), ErrPathTraversal)
	trash.AssertNotCalled(t, "Trash", mock.Anything, mock.Anything)
}

func TestOpenExternal(t *testing.T) {
	svc, _, opener := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "index.html", "")

	require.NoError(t, svc.OpenExternal(context.Background(), ws, path))
	opener.AssertCalled(t, "Open", mock.Anything, path)

	assert.ErrorIs(t, svc.OpenExternal(context.Background(), ws, "../x.html"), ErrPathTraversal)
	assert.ErrorIs(t, svc.OpenExternal(context.Background(), ws, "nope.html"), ErrNotFound)
}

func TestOperationsRecordMetrics(t *testing.T) {
	rec := new(testutil.MockRecorder)
	rec.On("RecordFileOperation", "create", "success", mock.Anything).Once()
	rec.On("RecordFileOperation", "create", "exists", mock.Anything).Once()
	rec.On("RecordFileOperation", "read", "traversal", mock.Anything).Once()

	svc := NewService(nil, nil, nil).WithMetrics(rec)
	ws := testutil.NewWorkspace(t)

	_, err := svc.Create(context.Background(), ws, "a", "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), ws, "a", "")
	require.Error(t, err)
	_, err = svc.Read(context.Background(), ws, "../a.html")
	require.Error(t, err)

	rec.AssertExpectations(t)
}
