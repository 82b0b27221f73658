// Package types provides shared data structures for the HTMLDesk backend.
//
// Core Types:
//   - FileItem: an HTML file inside the workspace, as listed to clients
//   - Document: inspection result for a single HTML file
//   - WorkspaceInfo: the current workspace plus recent history
//
// Request Types:
//   - CreateFileRequest, UpdateFileRequest, OpenFileRequest, SetWorkspaceRequest
//
// Event Types:
//   - ChangeType, FileChange: watcher output
//   - WSMessage: WebSocket frames pushed to clients
//
// Example Usage:
//
//	item := types.FileItem{
//	    Name:    "index.html",
//	    Path:    "/home/me/site/index.html",
//	    Size:    512,
//	    ModTime: types.Millis(info.ModTime()),
//	}
package types
