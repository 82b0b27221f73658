package workspace

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"

	"github.com/GriffinCanCode/htmldesk/internal/shared/types"
)

// titleReadLimit bounds how much of each file List reads to find a <title>
const titleReadLimit = 64 * 1024

// Inspect reports MIME type, charset and document metadata of an HTML file
func (s *Service) Inspect(ctx context.Context, workspace, path string) (doc types.Document, err error) {
	defer func(start time.Time) { s.observe("inspect", start, err) }(time.Now())

	data, target, err := s.readFile(workspace, path)
	if err != nil {
		return types.Document{}, fmt.Errorf("failed to inspect file: %w", err)
	}

	mt := mimetype.Detect(data)
	if !mt.Is("text/html") && !mt.Is("text/plain") {
		return types.Document{}, fmt.Errorf("failed to inspect file: %w: detected %s", ErrNotHTML, mt.String())
	}

	text, cs := decodeText(data)
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return types.Document{}, fmt.Errorf("failed to inspect file: parse: %w", err)
	}

	description, _ := parsed.Find(`meta[name="description"]`).First().Attr("content")

	return types.Document{
		Name:        filepath.Base(target),
		Path:        target,
		Size:        int64(len(data)),
		MIME:        mt.String(),
		Charset:     cs,
		Title:       strings.TrimSpace(parsed.Find("title").First().Text()),
		Description: strings.TrimSpace(description),
		Headings:    parsed.Find("h1, h2, h3, h4, h5, h6").Length(),
		Links:       parsed.Find("a[href]").Length(),
	}, nil
}

// Preview returns the file content sanitized for embedding in a host page.
// Scripts, event handlers and other active content are removed.
func (s *Service) Preview(ctx context.Context, workspace, path string) (html string, err error) {
	defer func(start time.Time) { s.observe("preview", start, err) }(time.Now())

	data, _, err := s.readFile(workspace, path)
	if err != nil {
		return "", fmt.Errorf("failed to preview file: %w", err)
	}
	text, _ := decodeText(data)
	return s.sanitizer.Sanitize(text), nil
}

// readTitle returns the <title> of the file at path, or "" if none is found
// within the first titleReadLimit bytes.
func (s *Service) readTitle(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(f, titleReadLimit))
	if err != nil {
		return ""
	}
	text, _ := decodeText(head)

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Find("title").First().Text())
}
