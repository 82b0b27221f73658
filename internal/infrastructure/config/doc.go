// Package config provides 12-factor configuration management for htmldesk.
//
// Configuration is assembled from three layers, later layers winning:
// built-in defaults, an optional YAML or TOML file named by HTMLDESK_CONFIG,
// and environment variables. CLI flags override the result.
//
// Configuration Sections:
//   - Server: HTTP listener and CORS origins
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting
//   - Workspace: Settings directory and startup workspace
//   - Watch: File change notifications
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Server running on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - HTMLDESK_PORT, HTMLDESK_HOST, HTMLDESK_ALLOWED_ORIGINS
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - HTMLDESK_SETTINGS_DIR, HTMLDESK_WORKSPACE
//   - WATCH_ENABLED, WATCH_DEBOUNCE
package config
