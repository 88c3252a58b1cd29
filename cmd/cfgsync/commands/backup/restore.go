package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/internal/backup"
	"github.com/thoreinstein/cfgsync/internal/errors"
)

func init() {
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file> [backup-id]",
	Short: "Restore a snapshot",
	Long: `Restore a config file from a snapshot.

Without a backup ID the most recent snapshot is restored. The snapshot is
verified against its checksum first and the file gets back the
permissions it had when the snapshot was taken.`,
	Example: `  # Restore the most recent snapshot
  cfgsync backup restore config.yaml

  # Restore a specific snapshot
  cfgsync backup restore config.yaml 20260123T100712.000

  See Also:
    cfgsync backup list - List snapshots`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := managerFromSettings()
		if err != nil {
			return err
		}
		id := ""
		if len(args) == 2 {
			id = args[1]
		}
		return runRestore(cmd.OutOrStdout(), mgr, args[0], id)
	},
}

func runRestore(w io.Writer, mgr *backup.Manager, arg, id string) error {
	path, err := targetPath(arg)
	if err != nil {
		return err
	}

	if id == "" {
		manifests, err := mgr.List(path)
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(err, "Run: cfgsync backup list "+arg)
		}
		if err != nil {
			return errors.Wrapf(err, "listing backups for %s", path)
		}
		id = manifests[0].ID
	}

	manifest, err := mgr.Restore(path, id)
	switch {
	case errors.Is(err, backup.ErrNoBackupsFound):
		return errors.NewUserError(err, "Run: cfgsync backup list "+arg)
	case errors.Is(err, backup.ErrBackupCorrupted):
		return errors.NewSystemError(err, "Pick an older snapshot from: cfgsync backup list "+arg)
	case err != nil:
		return errors.NewSystemError(err, "")
	}

	fmt.Fprintf(w, "Restored %s from %s (%s)\n", manifest.Source, manifest.ID,
		manifest.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}
