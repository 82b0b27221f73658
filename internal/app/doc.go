// Package app manages the active workspace for a running htmldesk process.
//
// The Manager ties together the settings store (which remembers the last
// workspace and the recent history), the file watcher (re-targeted on every
// switch) and any listeners such as the WebSocket hub.
//
// Example Usage:
//
//	manager := app.NewManager(store, watcher.New(0, logger), logger)
//	if err := manager.Restore(cfg.Workspace.Path); err != nil {
//		return err
//	}
//	ws, err := manager.Require()
package app
