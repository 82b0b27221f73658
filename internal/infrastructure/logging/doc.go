// Package logging provides structured logging using uber/zap.
//
// Two output modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// The server logs to stdout at the configured level. CLI commands use
// CLIConfig, which only surfaces warnings and errors on stderr.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("addr", "127.0.0.1:8000"))
//	logger.Error("Failed to save settings", zap.Error(err))
package logging
