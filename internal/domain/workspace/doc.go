// Package workspace implements the sandboxed HTML file operations of a
// user-chosen workspace directory.
//
// Every operation resolves its target through the path guard before touching
// the filesystem, so nothing outside the workspace root can be read, written,
// renamed, deleted or opened.
//
// The package is organized into:
//   - guard: path resolution and containment checks (with symlink resolution)
//   - filename: whitelist validation and .html normalization
//   - files: list, read, create, update (with rename), delete, open
//   - trash: recoverable deletion through the OS trash
//   - opener: handing a file to the OS default application
//   - inspect: MIME, charset and HTML metadata, sanitized preview
//   - query: XPath selection inside a document
//   - search, export: glob search and compressed archive of the workspace
//
// Example Usage:
//
//	svc := workspace.NewService(workspace.NewSystemTrash(), workspace.SystemOpener{}, logger)
//	items, err := svc.List(ctx, root, workspace.ListOptions{})
//	item, err := svc.Create(ctx, root, "index", "<h1>hi</h1>")
package workspace
