// Package server assembles the HTMLDesk HTTP server.
//
// NewServer wires the components together:
//   - settings store under the user config directory
//   - workspace manager, restoring the saved or configured workspace
//   - file service backed by the system trash and opener
//   - fsnotify watcher feeding the WebSocket hub
//   - gin router with recovery, request IDs, access logs, metrics, CORS
//     and optional per-client rate limiting
//
// Routes:
//   - REST file and workspace operations (see internal/api/http)
//   - GET /stream: WebSocket change notifications
//   - GET /metrics: Prometheus scrape endpoint
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	srv, err := server.NewServer(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	go srv.Run()
//	<-ctx.Done()
//	srv.Shutdown(shutdownCtx)
package server
