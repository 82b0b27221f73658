package workspace

import "errors"

var (
	ErrPathTraversal   = errors.New("path traversal detected")
	ErrInvalidFilename = errors.New("invalid filename: use only letters, numbers, dots, underscores, and hyphens")
	ErrFileExists      = errors.New("file already exists")
	ErrNotFound        = errors.New("file not found")
	ErrNotHTML         = errors.New("not an html document")
	ErrIsDirectory     = errors.New("path is a directory")
	ErrTooLarge        = errors.New("file too large")
	ErrInvalidQuery    = errors.New("invalid xpath expression")
	ErrInvalidPattern  = errors.New("invalid search pattern")
)

// errorKind labels an error for metrics
func errorKind(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrPathTraversal):
		return "traversal"
	case errors.Is(err, ErrInvalidFilename):
		return "invalid_name"
	case errors.Is(err, ErrFileExists):
		return "exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrInvalidPattern):
		return "invalid_query"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	default:
		return "error"
	}
}
