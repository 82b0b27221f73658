// Package settings persists the selected workspace and the recently used
// workspace history as a small JSON document in the user's config directory.
package settings
