// Package ws streams workspace events to connected front ends.
//
// Message Types (Client → Server):
//   - ping: Keep-alive ping, answered with pong
//
// Message Types (Server → Client):
//   - system: Sent once on connect, carries the active workspace
//   - files_changed: Debounced batch of created/modified/deleted/renamed files
//   - workspace_changed: The active workspace was switched or cleared
//   - error: Unrecognised client message
//
// Example Usage:
//
//	handler := ws.NewHandler(manager.Current, metrics, logger)
//	watcher.Subscribe(handler.BroadcastChanges)
//	router.GET("/stream", handler.HandleConnection)
package ws
