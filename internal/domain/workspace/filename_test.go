package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilename(t *testing.T) {
	valid := []string{"test.html", "my-file_123.html", "simple", "file.name", "..."}
	for _, name := range valid {
		assert.True(t, ValidateFilename(name), name)
	}

	invalid := []string{
		"test file.html",
		"test/file.html",
		`test\file.html`,
		"test<file>.html",
		"",
		"café.html",
		"tab\t.html",
	}
	for _, name := range invalid {
		assert.False(t, ValidateFilename(name), name)
	}
}

func TestEnsureHTMLExtension(t *testing.T) {
	assert.Equal(t, "test.html", EnsureHTMLExtension("test"))
	assert.Equal(t, "my-file.html", EnsureHTMLExtension("my-file"))
	assert.Equal(t, "test.html", EnsureHTMLExtension("test.html"))
	assert.Equal(t, "my-file.html", EnsureHTMLExtension("my-file.html"))
	assert.Equal(t, "page.HTML.html", EnsureHTMLExtension("page.HTML"))
	assert.Equal(t, "page.htm.html", EnsureHTMLExtension("page.htm"))
}

func TestNormalizeFilename(t *testing.T) {
	got, err := NormalizeFilename("about")
	require.NoError(t, err)
	assert.Equal(t, "about.html", got)

	for _, name := range []string{"", ".", "..", "a b", "../x"} {
		_, err := NormalizeFilename(name)
		assert.ErrorIs(t, err, ErrInvalidFilename, name)
	}
}
