package types

import "time"

// ChangeType represents the kind of filesystem change observed
type ChangeType string

const (
	ChangeCreated  ChangeType = "created"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
	ChangeRenamed  ChangeType = "renamed"
)

// FileChange is a single debounced change inside the workspace
type FileChange struct {
	Type ChangeType `json:"type"`
	Name string     `json:"name"`
	Path string     `json:"path"`
	At   time.Time  `json:"at"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type      string       `json:"type"`
	ID        string       `json:"id,omitempty"`
	Message   string       `json:"message,omitempty"`
	Workspace string       `json:"workspace,omitempty"`
	Changes   []FileChange `json:"changes,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
}
