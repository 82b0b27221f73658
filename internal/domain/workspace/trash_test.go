package workspace

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/htmldesk/internal/testutil"
)

func skipUnlessFreedesktop(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("freedesktop trash layout only")
	}
}

func TestSystemTrashFreedesktop(t *testing.T) {
	skipUnlessFreedesktop(t)

	home := t.TempDir()
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "my page.html", "<p>bye</p>")

	deleted := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	trash := &SystemTrash{Home: home, Now: func() time.Time { return deleted }}

	require.NoError(t, trash.Trash(context.Background(), path))
	testutil.AssertMissing(t, path)

	assert.Equal(t, "<p>bye</p>", testutil.ReadFile(t, filepath.Join(home, "files", "my page.html")))

	info := testutil.ReadFile(t, filepath.Join(home, "info", "my page.html.trashinfo"))
	lines := strings.Split(strings.TrimSpace(info), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[Trash Info]", lines[0])
	assert.Equal(t, "Path="+strings.ReplaceAll(path, " ", "%20"), lines[1])
	assert.Equal(t, "DeletionDate=2024-03-09T14:05:07", lines[2])
}

func TestSystemTrashNameCollision(t *testing.T) {
	skipUnlessFreedesktop(t)

	home := t.TempDir()
	trash := &SystemTrash{Home: home}

	first := testutil.WriteFile(t, testutil.NewWorkspace(t), "index.html", "first")
	second := testutil.WriteFile(t, testutil.NewWorkspace(t), "index.html", "second")

	require.NoError(t, trash.Trash(context.Background(), first))
	require.NoError(t, trash.Trash(context.Background(), second))

	files, err := os.ReadDir(filepath.Join(home, "files"))
	require.NoError(t, err)
	require.Len(t, files, 2)

	infos, err := os.ReadDir(filepath.Join(home, "info"))
	require.NoError(t, err)
	require.Len(t, infos, 2)

	for _, f := range files {
		assert.True(t, strings.HasPrefix(f.Name(), "index."), f.Name())
		assert.True(t, strings.HasSuffix(f.Name(), ".html"), f.Name())
		_, err := os.Stat(filepath.Join(home, "info", f.Name()+".trashinfo"))
		assert.NoError(t, err, "info file for %s", f.Name())
	}
}

func TestSystemTrashMissingFile(t *testing.T) {
	skipUnlessFreedesktop(t)

	home := t.TempDir()
	trash := &SystemTrash{Home: home}

	err := trash.Trash(context.Background(), filepath.Join(t.TempDir(), "gone.html"))
	assert.Error(t, err)

	infos, err := os.ReadDir(filepath.Join(home, "info"))
	require.NoError(t, err)
	assert.Empty(t, infos, "info file must be removed when the move fails")
}

func TestMoveUnique(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.html", "existing")
	src := testutil.WriteFile(t, t.TempDir(), "a.html", "incoming")

	dst, err := moveUnique(src, dir)
	require.NoError(t, err)
	assert.NotEqual(t, filepath.Join(dir, "a.html"), dst)
	assert.Equal(t, "incoming", testutil.ReadFile(t, dst))
	assert.Equal(t, "existing", testutil.ReadFile(t, filepath.Join(dir, "a.html")))
	testutil.AssertMissing(t, src)
}

func TestUniqueName(t *testing.T) {
	name := uniqueName("report.html")
	assert.True(t, strings.HasPrefix(name, "report."))
	assert.True(t, strings.HasSuffix(name, ".html"))
	assert.Len(t, name, len("report.html")+9)
	assert.NotEqual(t, name, uniqueName("report.html"))
}

func TestMove(t *testing.T) {
	src := testutil.WriteFile(t, t.TempDir(), "page.html", "content")
	dst := filepath.Join(t.TempDir(), "page.html")

	require.NoError(t, move(src, dst))
	assert.Equal(t, "content", testutil.ReadFile(t, dst))
	testutil.AssertMissing(t, src)
}
