package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/internal/backup"
	"github.com/thoreinstein/cfgsync/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", backup.DefaultRetentionCount,
		"Number of snapshots to retain")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune <file>",
	Short: "Remove old snapshots",
	Long:  `Remove the snapshots of a file beyond the retention count.`,
	Example: `  # Keep only the 3 most recent snapshots
  cfgsync backup prune config.yaml --keep 3

  # Remove all snapshots
  cfgsync backup prune config.yaml --keep 0

  See Also:
    cfgsync backup list - List snapshots`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := managerFromSettings()
		if err != nil {
			return err
		}
		return runPrune(cmd.OutOrStdout(), mgr, args[0], pruneKeep)
	},
}

func runPrune(w io.Writer, mgr *backup.Manager, arg string, keep int) error {
	if keep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}
	path, err := targetPath(arg)
	if err != nil {
		return err
	}

	manifests, err := mgr.List(path)
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrapf(err, "listing backups for %s", path)
	}
	if len(manifests) <= keep {
		fmt.Fprintln(w, "No backups to prune")
		return nil
	}

	if err := mgr.Prune(path, keep); err != nil {
		return errors.Wrapf(err, "pruning backups for %s", path)
	}
	fmt.Fprintf(w, "Removed %d old backup(s)\n", len(manifests)-keep)
	return nil
}
