package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/htmldesk/internal/domain/workspace"
)

func newListCommand(e *env) *cobra.Command {
	var titles, asJSON bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list", "l"},
		Short:   "List HTML files in the workspace root",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := e.activeWorkspace()
			if err != nil {
				return err
			}
			items, err := e.files.List(cmd.Context(), ws, workspace.ListOptions{Titles: titles})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, item := range items {
				mtime := time.UnixMilli(item.ModTime).Format("2006-01-02 15:04")
				if titles {
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", item.Name, item.Size, mtime, item.Title)
				} else {
					fmt.Fprintf(w, "%s\t%d\t%s\n", item.Name, item.Size, mtime)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&titles, "titles", "t", false, "include each document's <title>")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newCatCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <file>",
		Short: "Print a file's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := e.activeWorkspace()
			if err != nil {
				return err
			}
			content, err := e.files.Read(cmd.Context(), ws, args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), content)
			return err
		},
	}
}

func newNewCommand(e *env) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an HTML file (.html is appended when missing)",
		Long: `Create an HTML file in the workspace root.

Content comes from --file; pass "-" to read stdin. Without --file the file
starts empty.

Examples:
  htmldesk new notes
  htmldesk new index.html --file template.html
  curl -s https://example.com | htmldesk new example --file -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := e.activeWorkspace()
			if err != nil {
				return err
			}

			var content string
			if source != "" {
				if content, err = readSource(cmd, source); err != nil {
					return err
				}
			}

			item, err := e.files.Create(cmd.Context(), ws, args[0], content)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), item.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "file", "f", "", `read content from a file ("-" for stdin)`)
	return cmd
}

func newEditCommand(e *env) *cobra.Command {
	var source, rename string

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Replace a file's content, optionally renaming it",
		Long: `Replace a file's content with --file, or with stdin when --file is not
given. --rename moves the file within its directory first.

Examples:
  htmldesk edit notes.html < notes.html.new
  htmldesk edit draft.html --file final.html --rename final`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := e.activeWorkspace()
			if err != nil {
				return err
			}

			if source == "" {
				source = "-"
			}
			content, err := readSource(cmd, source)
			if err != nil {
				return err
			}

			var newName *string
			if cmd.Flags().Changed("rename") {
				newName = &rename
			}

			item, err := e.files.Update(cmd.Context(), ws, args[0], newName, content)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), item.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "file", "f", "", `read content from a file ("-" for stdin, the default)`)
	cmd.Flags().StringVarP(&rename, "rename", "r", "", "new file name")
	return cmd
}

func newRemoveCommand(e *env) *cobra.Command {
	var permanent bool

	cmd := &cobra.Command{
		Use:     "rm <file>",
		Aliases: []string{"delete"},
		Short:   "Move a file to the trash",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := e.activeWorkspace()
			if err != nil {
				return err
			}
			return e.files.Delete(cmd.Context(), ws, args[0], !permanent)
		},
	}

	cmd.Flags().BoolVar(&permanent, "permanent", false, "delete instead of trashing")
	return cmd
}

func newOpenCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "open <file>",
		Short: "Open a file with the OS default application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := e.activeWorkspace()
			if err != nil {
				return err
			}
			return e.files.OpenExternal(cmd.Context(), ws, args[0])
		},
	}
}

func newInspectCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show title, charset and structure of a document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := e.activeWorkspace()
			if err != nil {
				return err
			}
			doc, err := e.files.Inspect(cmd.Context(), ws, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func newQueryCommand(e *env) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "query <file> <xpath>",
		Short: "Print the elements of a document selected by XPath",
		Long: `Print the text of every element an XPath expression selects, one per line.

Examples:
  htmldesk query index.html '//h1'
  htmldesk query index.html '//a/@href'
  htmldesk query index.html '//nav' --html`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := e.activeWorkspace()
			if err != nil {
				return err
			}
			matches, err := e.files.Query(cmd.Context(), ws, args[0], args[1])
			if err != nil {
				return err
			}
			for _, m := range matches {
				if asHTML {
					fmt.Fprintln(cmd.OutOrStdout(), m.HTML)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), m.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "print outer HTML instead of text")
	return cmd
}

// readSource returns the content of path, or stdin for "-"
func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(cmd.InOrStdin(), workspace.MaxFileSize+1))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	if len(data) > workspace.MaxFileSize {
		return "", fmt.Errorf("failed to read content: %w", workspace.ErrTooLarge)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
