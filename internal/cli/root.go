package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/htmldesk/internal/app"
	"github.com/GriffinCanCode/htmldesk/internal/domain/settings"
	"github.com/GriffinCanCode/htmldesk/internal/domain/workspace"
	"github.com/GriffinCanCode/htmldesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/htmldesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/htmldesk/internal/shared/paths"
)

// Version is printed by the version command
const Version = "0.3.0"

// Option customizes the command tree
type Option func(*env)

// WithTrasher replaces the system trash
func WithTrasher(t workspace.Trasher) Option {
	return func(e *env) { e.trash = t }
}

// WithOpener replaces the system opener
func WithOpener(o workspace.Opener) Option {
	return func(e *env) { e.opener = o }
}

// env holds state shared by all commands of one invocation
type env struct {
	// flags
	configFile  string
	settingsDir string
	workspace   string
	verbose     bool

	trash  workspace.Trasher
	opener workspace.Opener

	cfg     *config.Config
	logger  *logging.Logger
	manager *app.Manager
	files   *workspace.Service
}

// NewRootCommand builds the htmldesk command tree
func NewRootCommand(opts ...Option) *cobra.Command {
	e := &env{
		trash:  workspace.NewSystemTrash(),
		opener: workspace.SystemOpener{},
	}
	for _, opt := range opts {
		opt(e)
	}

	root := &cobra.Command{
		Use:   "htmldesk",
		Short: "Manage a folder of HTML documents",
		Long: `htmldesk manages a workspace folder of standalone HTML files.

It can serve the workspace to a browser front end over HTTP and WebSocket,
or operate on it directly from the terminal.

Quick Start:
  htmldesk workspace set ~/sites/notes   Choose the workspace
  htmldesk ls                            List HTML files
  htmldesk new draft < draft.html        Create draft.html from stdin
  htmldesk serve                         Start the server`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.configFile, "config", "", "config file (.yaml or .toml; default from "+config.FileEnv+")")
	flags.StringVar(&e.settingsDir, "settings-dir", "", "directory holding "+paths.SettingsFile)
	flags.StringVarP(&e.workspace, "workspace", "w", "", "workspace to use for this command instead of the saved one")
	flags.BoolVarP(&e.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newServeCommand(e),
		newWorkspaceCommand(e),
		newListCommand(e),
		newCatCommand(e),
		newNewCommand(e),
		newEditCommand(e),
		newRemoveCommand(e),
		newOpenCommand(e),
		newInspectCommand(e),
		newQueryCommand(e),
		newSearchCommand(e),
		newExportCommand(e),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command with os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

func (e *env) setup() error {
	file := e.configFile
	if file == "" {
		file = os.Getenv(config.FileEnv)
	}
	cfg, err := config.LoadFrom(file)
	if err != nil {
		return err
	}
	if e.settingsDir != "" {
		cfg.Workspace.SettingsDir = e.settingsDir
	}
	e.cfg = cfg

	logCfg := logging.CLIConfig()
	if e.verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	e.logger = logger

	settingsPath, err := paths.SettingsPath(cfg.Workspace.SettingsDir)
	if err != nil {
		return err
	}
	store := settings.NewStore(settingsPath, logger.Named("settings"))

	// Terminal commands never watch the workspace
	e.manager = app.NewManager(store, nil, logger.Named("workspace"))
	e.files = workspace.NewService(e.trash, e.opener, logger.Named("files"))
	return nil
}

func (e *env) teardown() error {
	if e.logger != nil {
		_ = e.logger.Sync()
	}
	return nil
}

// activeWorkspace returns --workspace, HTMLDESK_WORKSPACE or the saved
// workspace, in that order. An explicit directory is validated but not saved.
func (e *env) activeWorkspace() (string, error) {
	dir := e.workspace
	if dir == "" {
		dir = e.cfg.Workspace.Path
	}
	if dir != "" {
		return workspace.EnsureWorkspace(dir)
	}

	if err := e.manager.Restore(""); err != nil {
		return "", err
	}
	ws, err := e.manager.Require()
	if err != nil {
		return "", fmt.Errorf("%w: run 'htmldesk workspace set <dir>' first", err)
	}
	return ws, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "htmldesk %s\n", Version)
			return nil
		},
	}
}
