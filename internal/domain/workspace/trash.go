package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GriffinCanCode/htmldesk/internal/shared/paths"
)

// Trasher moves files to a recoverable location
type Trasher interface {
	Trash(ctx context.Context, path string) error
}

// SystemTrash moves files to the current user's OS trash.
//
// On Linux and the BSDs it implements the FreeDesktop.org trash
// specification directly; on macOS it moves into ~/.Trash; on Windows it
// asks PowerShell to send the file to the Recycle Bin.
type SystemTrash struct {
	// Home overrides the trash directory; empty means paths.TrashHome()
	Home string
	// Now is the deletion clock; nil means time.Now
	Now func() time.Time
}

// NewSystemTrash creates a trash for the running platform
func NewSystemTrash() *SystemTrash {
	return &SystemTrash{}
}

// Trash implements Trasher
func (t *SystemTrash) Trash(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if runtime.GOOS == "windows" {
		return recycleWindows(ctx, abs)
	}

	home := t.Home
	if home == "" {
		if home, err = paths.TrashHome(); err != nil {
			return err
		}
	}

	if runtime.GOOS == "darwin" {
		_, err := moveUnique(abs, home)
		return err
	}
	return t.trashFreedesktop(abs, home)
}

// trashFreedesktop writes info/<name>.trashinfo, then moves the file to
// files/<name>. The info file is created exclusively first to claim the name.
func (t *SystemTrash) trashFreedesktop(abs, home string) error {
	filesDir := filepath.Join(home, "files")
	infoDir := filepath.Join(home, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create trash directory: %w", err)
		}
	}

	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	name := filepath.Base(abs)
	for attempt := 0; attempt < 8; attempt++ {
		if attempt > 0 {
			name = uniqueName(filepath.Base(abs))
		}

		infoPath := filepath.Join(infoDir, name+".trashinfo")
		info, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("write trash info: %w", err)
		}
		if _, err := os.Lstat(filepath.Join(filesDir, name)); err == nil {
			info.Close()
			os.Remove(infoPath)
			continue
		}

		_, err = fmt.Fprintf(info, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
			(&url.URL{Path: abs}).EscapedPath(),
			now().Format("2006-01-02T15:04:05"),
		)
		if cerr := info.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(infoPath)
			return fmt.Errorf("write trash info: %w", err)
		}

		if err := move(abs, filepath.Join(filesDir, name)); err != nil {
			os.Remove(infoPath)
			return fmt.Errorf("move to trash: %w", err)
		}
		return nil
	}
	return fmt.Errorf("move to trash: no free name for %s", filepath.Base(abs))
}

// moveUnique moves src into dir, suffixing the name on collision
func moveUnique(src, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create trash directory: %w", err)
	}
	dst := filepath.Join(dir, filepath.Base(src))
	if _, err := os.Lstat(dst); err == nil {
		dst = filepath.Join(dir, uniqueName(filepath.Base(src)))
	}
	if err := move(src, dst); err != nil {
		return "", fmt.Errorf("move to trash: %w", err)
	}
	return dst, nil
}

// uniqueName inserts a short random suffix before the extension
func uniqueName(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s.%s%s", stem, uuid.NewString()[:8], ext)
}

// move renames src to dst, copying across filesystems when rename fails
func move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

func recycleWindows(ctx context.Context, path string) error {
	script := fmt.Sprintf(
		"Add-Type -AssemblyName Microsoft.VisualBasic; [Microsoft.VisualBasic.FileIO.FileSystem]::DeleteFile('%s', 'OnlyErrorDialogs', 'SendToRecycleBin')",
		strings.ReplaceAll(path, "'", "''"),
	)
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("recycle bin: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
