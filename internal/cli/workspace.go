package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWorkspaceCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Show or change the saved workspace",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showWorkspace(cmd, e)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the saved workspace and recent history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showWorkspace(cmd, e)
			},
		},
		&cobra.Command{
			Use:   "set <dir>",
			Short: "Validate and save the workspace directory",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				abs, err := e.manager.Select(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), abs)
				return nil
			},
		},
		&cobra.Command{
			Use:   "forget [dir]",
			Short: "Remove a directory (default: the saved workspace) from the history",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var dir string
				if len(args) == 1 {
					dir = args[0]
				} else {
					if err := e.manager.Restore(""); err != nil {
						return err
					}
					ws, err := e.manager.Require()
					if err != nil {
						return err
					}
					dir = ws
				}
				return e.manager.Forget(dir)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget the saved workspace and the whole history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.manager.Clear()
			},
		},
	)
	return cmd
}

func showWorkspace(cmd *cobra.Command, e *env) error {
	if err := e.manager.Restore(""); err != nil {
		return err
	}
	info := e.manager.Info()

	out := cmd.OutOrStdout()
	if info.Workspace == nil {
		fmt.Fprintln(out, "workspace: (none)")
	} else {
		fmt.Fprintf(out, "workspace: %s\n", *info.Workspace)
	}
	for _, dir := range info.Recent {
		fmt.Fprintf(out, "  %s\n", dir)
	}
	return nil
}
