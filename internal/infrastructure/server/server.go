package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/htmldesk/internal/api/http"
	"github.com/GriffinCanCode/htmldesk/internal/api/middleware"
	"github.com/GriffinCanCode/htmldesk/internal/app"
	"github.com/GriffinCanCode/htmldesk/internal/domain/settings"
	"github.com/GriffinCanCode/htmldesk/internal/domain/watcher"
	"github.com/GriffinCanCode/htmldesk/internal/domain/workspace"
	"github.com/GriffinCanCode/htmldesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/htmldesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/htmldesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/htmldesk/internal/shared/paths"
	"github.com/GriffinCanCode/htmldesk/internal/shared/types"
	"github.com/GriffinCanCode/htmldesk/internal/ws"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	manager *app.Manager
	files   *workspace.Service
	hub     *ws.Handler
	metrics *monitoring.Metrics
	logger  *logging.Logger
	config  *config.Config
}

// Option customizes server construction
type Option func(*options)

type options struct {
	trash  workspace.Trasher
	opener workspace.Opener
}

// WithTrasher replaces the system trash
func WithTrasher(t workspace.Trasher) Option {
	return func(o *options) { o.trash = t }
}

// WithOpener replaces the system opener
func WithOpener(op workspace.Opener) Option {
	return func(o *options) { o.opener = op }
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger, opts ...Option) (*Server, error) {
	o := options{
		trash:  workspace.NewSystemTrash(),
		opener: workspace.SystemOpener{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing HTMLDesk server",
		zap.String("addr", cfg.Server.Addr()),
		zap.Bool("watch", cfg.Watch.Enabled),
	)

	metrics := monitoring.NewMetrics()

	settingsPath, err := paths.SettingsPath(cfg.Workspace.SettingsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to locate settings: %w", err)
	}
	store := settings.NewStore(settingsPath, logger.Named("settings"))
	logger.Info("Settings store ready", zap.String("path", settingsPath))

	// Assigned below; the watcher only dispatches once a workspace is active
	var hub *ws.Handler

	// Leave the interface nil when watching is off
	var w app.Watcher
	if cfg.Watch.Enabled {
		fw := watcher.New(cfg.Watch.Debounce, logger.Named("watcher"))
		fw.Subscribe(func(dir string, changes []types.FileChange) {
			for _, change := range changes {
				metrics.RecordWatchEvent(string(change.Type))
			}
			hub.BroadcastChanges(dir, changes)
		})
		w = fw
	}

	manager := app.NewManager(store, w, logger.Named("workspace")).WithMetrics(metrics)
	hub = ws.NewHandler(manager.Current, metrics, logger.Named("ws"))
	manager.OnChange(hub.BroadcastWorkspace)

	files := workspace.NewService(o.trash, o.opener, logger.Named("files")).WithMetrics(metrics)

	if err := manager.Restore(cfg.Workspace.Path); err != nil {
		manager.Close()
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery(logger.Logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.Server.AllowedOrigins)))
	if cfg.RateLimit.Enabled {
		limits := rateLimits(cfg.RateLimit)
		logger.Info("Rate limiting enabled",
			zap.Int("rps", limits.RequestsPerSecond),
			zap.Int("burst", limits.Burst),
		)
		router.Use(middleware.RateLimit(limits))
	}

	handlers := api.NewHandlers(manager, files, metrics, logger.Logger)
	handlers.Register(router)

	// WebSocket
	router.GET("/stream", hub.HandleConnection)

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	return &Server{
		router:  router,
		http:    httpServer,
		manager: manager,
		files:   files,
		hub:     hub,
		metrics: metrics,
		logger:  logger,
		config:  cfg,
	}, nil
}

// rateLimits fills unset limits from the middleware defaults
func rateLimits(cfg config.RateLimitConfig) middleware.RateLimitConfig {
	limits := middleware.DefaultRateLimitConfig()
	if cfg.RequestsPerSecond > 0 {
		limits.RequestsPerSecond = cfg.RequestsPerSecond
	}
	if cfg.Burst > 0 {
		limits.Burst = cfg.Burst
	}
	return limits
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Manager returns the workspace manager
func (s *Server) Manager() *app.Manager {
	return s.manager
}

// Run serves HTTP until Shutdown is called
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, disconnects WebSocket clients and
// stops the watcher
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop http server: %w", err))
	}

	s.logger.Info("Closing stream clients", zap.Int("clients", s.hub.Clients()))
	s.hub.Close()

	if err := s.manager.Close(); err != nil {
		s.logger.Error("Failed to stop watcher", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to stop watcher: %w", err))
	}

	// Sync logger before exit
	_ = s.logger.Sync()

	return errors.Join(errs...)
}
