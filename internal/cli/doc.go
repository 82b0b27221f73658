// Package cli implements the htmldesk command-line interface.
//
// Every command loads configuration the same way the server does (defaults,
// then an optional YAML/TOML file, then environment variables) and operates
// on the saved workspace unless --workspace names another directory.
//
// Commands:
//
//	htmldesk serve                    Start the HTTP/WebSocket server
//	htmldesk workspace show|set|forget
//	htmldesk ls [--titles] [--json]   List HTML files in the workspace
//	htmldesk cat <file>               Print a file
//	htmldesk new <name> [--file src]  Create a file
//	htmldesk edit <file> [--rename n] Replace content from --file or stdin
//	htmldesk rm <file> [--permanent]  Trash (or delete) a file
//	htmldesk open <file>              Open with the OS default application
//	htmldesk inspect <file>           Show document metadata
//	htmldesk query <file> <xpath>     Print elements selected by XPath
//	htmldesk search [pattern]         Glob search across subdirectories
//	htmldesk export [-o out]          Write a zstd or gzip tarball
package cli
