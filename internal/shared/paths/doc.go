// Package paths provides the standard per-user locations the backend reads
// and writes outside of a workspace.
//
// # Locations
//
//	<user config dir>/htmldesk/settings.json   (settings store)
//	$XDG_DATA_HOME/Trash/{files,info}          (Linux/BSD trash)
//	~/.Trash                                   (macOS trash)
//
// # Usage
//
//	import "github.com/GriffinCanCode/htmldesk/internal/shared/paths"
//
//	settingsFile, err := paths.SettingsPath(cfg.Settings.Dir)
//	trash, err := paths.TrashHome()
package paths
