package types

import "time"

// FileItem represents an HTML file in the workspace
type FileItem struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"mtime"` // milliseconds since the Unix epoch
	Title   string `json:"title,omitempty"`
}

// Document describes an inspected HTML file
type Document struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	MIME        string `json:"mime"`
	Charset     string `json:"charset"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Headings    int    `json:"headings"`
	Links       int    `json:"links"`
}

// QueryMatch is one element selected from a document by XPath
type QueryMatch struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// WorkspaceInfo reports the active workspace and recent history
type WorkspaceInfo struct {
	Workspace *string  `json:"workspace"`
	Recent    []string `json:"recent"`
}

// Millis converts a time to milliseconds since the Unix epoch
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
