package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"github.com/GriffinCanCode/htmldesk/internal/shared/paths"
	"github.com/GriffinCanCode/htmldesk/internal/shared/types"
)

// DefaultSearchPattern matches every HTML file under the workspace
const DefaultSearchPattern = "**/*" + paths.HTMLExt

// Search walks the workspace recursively and returns the HTML files whose
// slash-separated path relative to the root matches pattern. Hidden
// directories are skipped and symlinks are not followed. Item names are the
// relative paths; results are sorted by them.
func (s *Service) Search(ctx context.Context, workspace, pattern string) (items []types.FileItem, err error) {
	defer func(start time.Time) { s.observe("search", start, err) }(time.Now())

	if pattern == "" {
		pattern = DefaultSearchPattern
	}
	if err := validatePattern(pattern); err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}

	root, err := Resolve(workspace, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}

	var mu sync.Mutex
	conf := fastwalk.Config{Follow: false}

	err = fastwalk.Walk(&conf, realRoot, func(p string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if p != realRoot && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), paths.HTMLExt) {
			return nil
		}

		rel, err := filepath.Rel(realRoot, p)
		if err != nil {
			return nil
		}
		name := filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(pattern, name); !ok {
			return nil
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil
		}
		// Paths are reported under the workspace as given, not its link target.
		item := fileItem(filepath.Join(root, rel), info)
		item.Name = name

		mu.Lock()
		items = append(items, item)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	if items == nil {
		items = []types.FileItem{}
	}
	return items, nil
}

// validatePattern rejects malformed globs and patterns that try to climb
// out of the workspace.
func validatePattern(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	if strings.HasPrefix(pattern, "/") || filepath.IsAbs(pattern) {
		return fmt.Errorf("%w: pattern %q must be relative", ErrPathTraversal, pattern)
	}
	for _, seg := range strings.Split(pattern, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: pattern %q", ErrPathTraversal, pattern)
		}
	}
	return nil
}
