package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/htmldesk/internal/shared/paths"
	"github.com/GriffinCanCode/htmldesk/internal/shared/types"
)

// MaxFileSize limits how much of a single file is read or written
const MaxFileSize = 10 * 1024 * 1024

// replaceFile writes updated content; swapped in tests
var replaceFile = writeAtomic

// Recorder receives per-operation metrics
type Recorder interface {
	RecordFileOperation(op, status string, duration time.Duration)
}

// Service performs file operations scoped to a workspace root
type Service struct {
	trash     Trasher
	opener    Opener
	logger    *zap.Logger
	metrics   Recorder
	sanitizer *bluemonday.Policy
}

// ListOptions controls List output
type ListOptions struct {
	// Titles fills FileItem.Title from each document's <title>
	Titles bool
}

// NewService creates a workspace service
func NewService(trash Trasher, opener Opener, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		trash:     trash,
		opener:    opener,
		logger:    logger,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// WithMetrics attaches an operation recorder
func (s *Service) WithMetrics(r Recorder) *Service {
	s.metrics = r
	return s
}

func (s *Service) observe(op string, start time.Time, err error) {
	if err != nil && errors.Is(err, ErrPathTraversal) {
		s.logger.Warn("Rejected path outside workspace", zap.String("op", op), zap.Error(err))
	} else if err != nil {
		s.logger.Debug("File operation failed", zap.String("op", op), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordFileOperation(op, errorKind(err), time.Since(start))
	}
}

// EnsureWorkspace checks that dir exists, is a directory, and is readable
// and writable. It returns the absolute path.
func EnsureWorkspace(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("cannot access workspace: %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access workspace: %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("cannot access workspace: %s: workspace path is not a directory", dir)
	}

	f, err := os.Open(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access workspace: %s: %w", dir, err)
	}
	_, err = f.Readdirnames(1)
	f.Close()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("cannot access workspace: %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(abs, ".htmldesk-probe-*")
	if err != nil {
		return "", fmt.Errorf("cannot access workspace: %s: not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return abs, nil
}

// List returns the .html regular files directly inside the workspace,
// sorted by name.
func (s *Service) List(ctx context.Context, workspace string, opts ListOptions) (items []types.FileItem, err error) {
	defer func(start time.Time) { s.observe("list", start, err) }(time.Now())

	root, err := Resolve(workspace, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	items = make([]types.FileItem, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.HasSuffix(entry.Name(), paths.HTMLExt) {
			continue
		}

		full := filepath.Join(root, entry.Name())
		// Stat follows symlinks; a link escaping the workspace is skipped.
		if Guard(root, full) != nil {
			continue
		}
		info, err := os.Stat(full)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		item := fileItem(full, info)
		if opts.Titles {
			item.Title = s.readTitle(full)
		}
		items = append(items, item)
	}

	sortItems(items)
	return items, nil
}

// Read returns the file content as UTF-8
func (s *Service) Read(ctx context.Context, workspace, path string) (content string, err error) {
	defer func(start time.Time) { s.observe("read", start, err) }(time.Now())

	data, _, err := s.readFile(workspace, path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	content, _ = decodeText(data)
	return content, nil
}

// Create writes a new file named name (with .html appended if missing).
// It fails with ErrFileExists rather than overwriting.
func (s *Service) Create(ctx context.Context, workspace, name, content string) (item types.FileItem, err error) {
	defer func(start time.Time) { s.observe("create", start, err) }(time.Now())

	filename, err := NormalizeFilename(name)
	if err != nil {
		return types.FileItem{}, fmt.Errorf("failed to create file: %w", err)
	}
	if err := checkSize(content); err != nil {
		return types.FileItem{}, fmt.Errorf("failed to create file: %w", err)
	}

	root, err := Resolve(workspace, workspace)
	if err != nil {
		return types.FileItem{}, fmt.Errorf("failed to create file: %w", err)
	}
	target, err := Resolve(root, filepath.Join(root, filename))
	if err != nil {
		return types.FileItem{}, fmt.Errorf("failed to create file: %w", err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return types.FileItem{}, fmt.Errorf("failed to create file: %w: %s", ErrFileExists, filename)
		}
		return types.FileItem{}, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(target)
		return types.FileItem{}, fmt.Errorf("failed to create file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return types.FileItem{}, fmt.Errorf("failed to create file: %w", err)
	}

	s.logger.Info("Created file", zap.String("path", target), zap.Int("bytes", len(content)))
	return statItem(target)
}

// Update replaces the content of oldPath. When newName is non-empty and
// differs from the current name, the file is first renamed within its
// directory; an existing destination is never overwritten. If writing the
// content fails after a rename, the rename is rolled back.
func (s *Service) Update(ctx context.Context, workspace, oldPath string, newName *string, content string) (item types.FileItem, err error) {
	defer func(start time.Time) { s.observe("update", start, err) }(time.Now())

	if err := checkSize(content); err != nil {
		return types.FileItem{}, fmt.Errorf("failed to update file: %w", err)
	}

	src, err := Resolve(workspace, oldPath)
	if err != nil {
		return types.FileItem{}, fmt.Errorf("failed to update file: %w", err)
	}
	srcInfo, err := statRegular(src)
	if err != nil {
		return types.FileItem{}, fmt.Errorf("failed to update file: %w", err)
	}

	final := src
	renamed := false

	if newName != nil && *newName != "" {
		filename, err := NormalizeFilename(*newName)
		if err != nil {
			return types.FileItem{}, fmt.Errorf("failed to update file: %w", err)
		}

		dst, err := Resolve(workspace, filepath.Join(filepath.Dir(src), filename))
		if err != nil {
			return types.FileItem{}, fmt.Errorf("failed to update file: %w", err)
		}

		if dst != src {
			dstInfo, err := os.Lstat(dst)
			switch {
			case err == nil && !os.SameFile(srcInfo, dstInfo):
				return types.FileItem{}, fmt.Errorf("failed to update file: %w: %s", ErrFileExists, filename)
			case err != nil && !errors.Is(err, fs.ErrNotExist):
				return types.FileItem{}, fmt.Errorf("failed to update file: %w", err)
			}

			if err := os.Rename(src, dst); err != nil {
				return types.FileItem{}, fmt.Errorf("failed to rename file: %w", err)
			}
			final, renamed = dst, true
		}
	}

	if err := replaceFile(final, content, srcInfo.Mode().Perm()); err != nil {
		if renamed {
			if rbErr := os.Rename(final, src); rbErr != nil {
				s.logger.Error("Failed to roll back rename",
					zap.String("from", final),
					zap.String("to", src),
					zap.Error(rbErr),
				)
			}
		}
		return types.FileItem{}, fmt.Errorf("failed to update file content: %w", err)
	}

	if renamed {
		s.logger.Info("Renamed file", zap.String("from", src), zap.String("to", final))
	}
	return statItem(final)
}

// Delete removes a file, moving it to the OS trash when toTrash is set
func (s *Service) Delete(ctx context.Context, workspace, path string, toTrash bool) (err error) {
	defer func(start time.Time) { s.observe("delete", start, err) }(time.Now())

	target, err := Resolve(workspace, path)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if _, err := statRegular(target); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if toTrash {
		if s.trash == nil {
			return fmt.Errorf("failed to delete file: trash not available")
		}
		if err := s.trash.Trash(ctx, target); err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}
	} else if err := os.Remove(target); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.Info("Deleted file", zap.String("path", target), zap.Bool("trash", toTrash))
	return nil
}

// OpenExternal opens the file with the OS default application
func (s *Service) OpenExternal(ctx context.Context, workspace, path string) (err error) {
	defer func(start time.Time) { s.observe("open", start, err) }(time.Now())

	target, err := Resolve(workspace, path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	if _, err := statRegular(target); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	if s.opener == nil {
		return fmt.Errorf("failed to open file: opener not available")
	}
	if err := s.opener.Open(ctx, target); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	return nil
}

// readFile resolves, checks and reads a workspace file
func (s *Service) readFile(workspace, path string) ([]byte, string, error) {
	target, err := Resolve(workspace, path)
	if err != nil {
		return nil, "", err
	}
	info, err := statRegular(target)
	if err != nil {
		return nil, "", err
	}
	if info.Size() > MaxFileSize {
		return nil, "", fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, "", err
	}
	return data, target, nil
}

func checkSize(content string) error {
	if len(content) > MaxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(content), MaxFileSize)
	}
	return nil
}

// statRegular stats path and requires a regular file
func statRegular(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	return info, nil
}

// writeAtomic replaces path with content via a temp file in the same directory
func writeAtomic(path, content string, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func fileItem(path string, info os.FileInfo) types.FileItem {
	return types.FileItem{
		Name:    info.Name(),
		Path:    path,
		Size:    info.Size(),
		ModTime: types.Millis(info.ModTime()),
	}
}

func statItem(path string) (types.FileItem, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.FileItem{}, err
	}
	return fileItem(path, info), nil
}

// sortItems orders by case-folded name, then byte order
func sortItems(items []types.FileItem) {
	sort.Slice(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a != b {
			return a < b
		}
		return items[i].Name < items[j].Name
	})
}
