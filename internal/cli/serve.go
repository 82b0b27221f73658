package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/htmldesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/htmldesk/internal/infrastructure/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(e *env) *cobra.Command {
	var (
		port    string
		host    string
		dev     bool
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Start the HTTP and WebSocket server",
		Long: `Start the server for the browser front end.

Flags override the configuration file and environment variables.

Examples:
  htmldesk serve                     # 127.0.0.1:8000
  htmldesk serve --port 9000 --dev   # colored debug logs
  htmldesk serve -w ~/sites/notes    # select a workspace at startup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if dev {
				cfg.Logging.Development = true
				cfg.Logging.Level = "debug"
			}
			if noWatch {
				cfg.Watch.Enabled = false
			}
			if e.workspace != "" {
				cfg.Workspace.Path = e.workspace
			}

			logger, err := logging.New(logging.Config{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
			})
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}

			srv, err := server.NewServer(cfg, logger,
				server.WithTrasher(e.trash),
				server.WithOpener(e.opener),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, srv, logger)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default 8000)")
	cmd.Flags().StringVar(&host, "host", "", "listen address (default 127.0.0.1)")
	cmd.Flags().BoolVar(&dev, "dev", false, "development logging")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "disable change notifications")
	return cmd
}

// run serves until ctx is cancelled or the listener fails
func run(ctx context.Context, srv *server.Server, logger *logging.Logger) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully")
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
			srv.Shutdown(context.Background())
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
