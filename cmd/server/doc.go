// Package main is the standalone HTMLDesk server.
//
// It serves one workspace folder of HTML files to a browser front end:
//
//	Browser UI → REST (gin) → workspace file service
//	           ← WebSocket /stream ← fsnotify watcher
//
// Configuration:
//   - Environment variables (HTMLDESK_PORT, LOG_LEVEL, ...)
//   - Optional YAML/TOML file named by HTMLDESK_CONFIG
//   - CLI flags (override both)
//
// Usage:
//
//	./server -port 8000 -workspace ~/sites/notes
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// The htmldesk command (cmd/htmldesk) offers the same server as
// "htmldesk serve" plus terminal file commands.
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
