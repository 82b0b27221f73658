package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// Guard returns an error wrapping ErrPathTraversal when target does not
// resolve to the workspace root or a path beneath it.
func Guard(workspace, target string) error {
	_, err := Resolve(workspace, target)
	return err
}

// Resolve returns the absolute, cleaned form of target after checking it is
// contained in workspace. Relative targets resolve against the workspace root.
//
// Containment is checked twice: lexically, and again after resolving symlinks
// of the longest existing prefix of both paths, so links pointing out of the
// workspace are rejected too.
func Resolve(workspace, target string) (string, error) {
	if workspace == "" {
		return "", fmt.Errorf("workspace path required")
	}
	if target == "" {
		return "", fmt.Errorf("target path required")
	}

	root, err := filepath.Abs(workspace)
	if err != nil {
		return "", fmt.Errorf("invalid workspace path %s: %w", workspace, err)
	}

	abs := target
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, abs)
	}
	abs = filepath.Clean(abs)

	if !within(root, abs) {
		return "", traversal(workspace, target)
	}

	realRoot, err := evalExisting(root)
	if err != nil {
		return "", fmt.Errorf("resolve workspace %s: %w", workspace, err)
	}
	realTarget, err := evalExisting(abs)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", target, err)
	}
	if !within(realRoot, realTarget) {
		return "", traversal(workspace, target)
	}

	return abs, nil
}

func traversal(workspace, target string) error {
	return fmt.Errorf("%w: %s is outside workspace %s", ErrPathTraversal, target, workspace)
}

// within reports whether target equals root or lies beneath it. Both paths
// must be absolute and clean. The comparison is per path component, so
// /data/site2 is not within /data/site.
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// maxLinkHops bounds how many dangling links evalExisting follows
const maxLinkHops = 40

// evalExisting resolves symlinks in the longest existing prefix of path and
// re-attaches the components that do not exist yet. A dangling link on the
// way is read and its target resolved in its place.
func evalExisting(path string) (string, error) {
	var rest []string
	current := path
	hops := 0

	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			for i := len(rest) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, rest[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return "", err
		}

		if info, lerr := os.Lstat(current); lerr == nil && info.Mode()&fs.ModeSymlink != 0 {
			if hops++; hops > maxLinkHops {
				return "", fmt.Errorf("too many links resolving %s", path)
			}
			link, err := os.Readlink(current)
			if err != nil {
				return "", err
			}
			if !filepath.IsAbs(link) {
				link = filepath.Join(filepath.Dir(current), link)
			}
			current = filepath.Clean(link)
			continue
		}

		parent := filepath.Dir(current)
		if parent == current {
			for i := len(rest) - 1; i >= 0; i-- {
				current = filepath.Join(current, rest[i])
			}
			return current, nil
		}
		rest = append(rest, filepath.Base(current))
		current = parent
	}
}
