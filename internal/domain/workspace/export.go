package workspace

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Export formats
const (
	FormatZstd = "zstd"
	FormatGzip = "gzip"
)

// ArchiveExt returns the file extension for an export format
func ArchiveExt(format string) string {
	if format == FormatGzip {
		return ".tar.gz"
	}
	return ".tar.zst"
}

// Export writes a compressed tar archive of every HTML file in the
// workspace to w and returns the number of files archived. Entry names are
// slash-separated paths relative to the workspace root.
func (s *Service) Export(ctx context.Context, workspace string, w io.Writer, format string) (count int, err error) {
	defer func(start time.Time) { s.observe("export", start, err) }(time.Now())

	if format == "" {
		format = FormatZstd
	}

	items, err := s.Search(ctx, workspace, DefaultSearchPattern)
	if err != nil {
		return 0, fmt.Errorf("failed to export workspace: %w", err)
	}

	var compressor io.WriteCloser
	switch format {
	case FormatZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return 0, fmt.Errorf("failed to export workspace: %w", err)
		}
		compressor = enc
	case FormatGzip:
		compressor = gzip.NewWriter(w)
	default:
		return 0, fmt.Errorf("failed to export workspace: unsupported format %q", format)
	}

	tw := tar.NewWriter(compressor)
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			compressor.Close()
			return count, err
		}
		if err := addToArchive(tw, item.Path, item.Name); err != nil {
			compressor.Close()
			return count, fmt.Errorf("failed to export workspace: %s: %w", item.Name, err)
		}
		count++
	}

	if err := tw.Close(); err != nil {
		compressor.Close()
		return count, fmt.Errorf("failed to export workspace: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return count, fmt.Errorf("failed to export workspace: %w", err)
	}
	return count, nil
}

func addToArchive(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name

	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	_, err = io.CopyN(tw, f, info.Size())
	return err
}
