package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/htmldesk/internal/domain/workspace"
)

func newSearchCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "search [pattern]",
		Short: "Find HTML files anywhere in the workspace by glob",
		Long: `Find HTML files in the workspace and its subdirectories. Patterns use
doublestar syntax relative to the workspace root; hidden directories are
skipped.

Examples:
  htmldesk search                    # **/*.html
  htmldesk search 'blog/**/*.html'
  htmldesk search '*/index.html'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := e.activeWorkspace()
			if err != nil {
				return err
			}
			var pattern string
			if len(args) == 1 {
				pattern = args[0]
			}

			items, err := e.files.Search(cmd.Context(), ws, pattern)
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Fprintln(cmd.OutOrStdout(), item.Name)
			}
			return nil
		},
	}
}

func newExportCommand(e *env) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Archive every HTML file in the workspace",
		Long: `Write a compressed tarball of the workspace's HTML files. The default
output is workspace-<timestamp>.tar.zst in the current directory; "-" writes
to stdout.

Examples:
  htmldesk export
  htmldesk export --format gzip -o site.tar.gz
  htmldesk export -o - | zstd -d | tar -t`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != workspace.FormatZstd && format != workspace.FormatGzip {
				return fmt.Errorf("unsupported format %q: use zstd or gzip", format)
			}

			ws, err := e.activeWorkspace()
			if err != nil {
				return err
			}

			if output == "" {
				output = "workspace-" + time.Now().Format("20060102-150405") + workspace.ArchiveExt(format)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create archive: %w", err)
				}
				defer f.Close()
				w = f
			}

			count, err := e.files.Export(cmd.Context(), ws, w, format)
			if err != nil {
				if output != "-" {
					os.Remove(output)
				}
				return err
			}
			if output != "-" {
				abs, _ := filepath.Abs(output)
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d files to %s\n", count, abs)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", workspace.FormatZstd, "archive compression: zstd or gzip")
	cmd.Flags().StringVarP(&output, "output", "o", "", `archive path ("-" for stdout)`)
	return cmd
}
