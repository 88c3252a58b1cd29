// Package backup provides CLI commands for managing config file snapshots.
package backup

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/cmd"
	"github.com/thoreinstein/cfgsync/internal/backup"
	"github.com/thoreinstein/cfgsync/internal/config"
	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/paths"
)

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage config file snapshots",
	Long: `Manage the snapshots cfgsync takes before it rewrites a config file.

Each file has its own history, stored under $XDG_STATE_HOME/cfgsync/backups
unless the backup.dir setting points elsewhere. A snapshot is skipped when
the file has not changed since the previous one, and only the newest
backup.keep snapshots are retained.`,
	Example: `  # List snapshots of a file
  cfgsync backup list config.yaml

  # Undo the last apply
  cfgsync backup restore config.yaml

  # Restore a specific snapshot
  cfgsync backup restore config.yaml 20260123T100712.000

  # Take a snapshot by hand
  cfgsync backup create config.yaml

  See Also:
    cfgsync backup list    - List snapshots
    cfgsync backup restore - Restore a snapshot
    cfgsync backup create  - Take a snapshot
    cfgsync backup prune   - Remove old snapshots`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// NewManager creates a backup manager from the settings.
func NewManager(cfg *config.Config) (*backup.Manager, error) {
	opts := []backup.Option{
		backup.WithRetentionCount(cfg.Backup.Keep),
		backup.WithToolVersion(cmd.Version),
	}
	if cfg.Backup.Dir != "" {
		dir, err := paths.Expand(cfg.Backup.Dir)
		if err != nil {
			return nil, errors.NewConfigError(err)
		}
		opts = append(opts, backup.WithBackupDir(dir))
	}
	return backup.NewManager(opts...), nil
}

// managerFromSettings creates a manager from the current settings.
func managerFromSettings() (*backup.Manager, error) {
	cfg, err := config.Current()
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	return NewManager(cfg)
}

// targetPath expands the file argument of a backup command.
func targetPath(arg string) (string, error) {
	path, err := paths.Expand(arg)
	if err != nil {
		return "", errors.NewUserError(err, "Check the file path")
	}
	return path, nil
}
