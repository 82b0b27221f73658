package types

// SetWorkspaceRequest selects a new workspace directory
type SetWorkspaceRequest struct {
	Path string `json:"path" binding:"required"`
}

// CreateFileRequest creates a new HTML file in the workspace
type CreateFileRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content"`
}

// UpdateFileRequest rewrites a file, optionally renaming it first
type UpdateFileRequest struct {
	OldPath string  `json:"oldPath" binding:"required"`
	NewName *string `json:"newName,omitempty"`
	Content string  `json:"content"`
}

// OpenFileRequest opens a file in the OS default application
type OpenFileRequest struct {
	Path string `json:"path" binding:"required"`
}
