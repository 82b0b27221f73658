package workspace

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/GriffinCanCode/htmldesk/internal/shared/paths"
)

var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateFilename reports whether name uses only letters, digits, dots,
// underscores and hyphens. The empty string is invalid.
func ValidateFilename(name string) bool {
	return filenamePattern.MatchString(name)
}

// EnsureHTMLExtension appends .html unless name already ends with it.
// The check is case-sensitive: "page.HTML" becomes "page.HTML.html".
func EnsureHTMLExtension(name string) string {
	if strings.HasSuffix(name, paths.HTMLExt) {
		return name
	}
	return name + paths.HTMLExt
}

// NormalizeFilename validates name and returns it with the .html extension.
// "." and ".." pass the character whitelist but address directories, so they
// are rejected explicitly.
func NormalizeFilename(name string) (string, error) {
	if !ValidateFilename(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return EnsureHTMLExtension(name), nil
}
