// Package paths resolves the directories cfgsync reads its own settings
// from and keeps its state in.
//
// Base directories follow the XDG Base Directory Specification through
// github.com/adrg/xdg, so they map to the platform conventions on macOS and
// Windows as well:
//
//	paths.ConfigDir() // ~/.config/cfgsync
//	paths.BackupDir() // ~/.local/state/cfgsync/backups
//
// CFGSYNC_CONFIG_DIR overrides the configuration directory.
package paths
