package backup

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/internal/backup"
	"github.com/thoreinstein/cfgsync/internal/errors"
)

func init() {
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "Take a snapshot of a file",
	Long: `Take a snapshot of a config file now. Nothing is stored when the file
matches its most recent snapshot.`,
	Example: `  cfgsync backup create config.yaml

  See Also:
    cfgsync backup list - List snapshots`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := managerFromSettings()
		if err != nil {
			return err
		}
		return runCreate(cmd.OutOrStdout(), mgr, args[0])
	},
}

func runCreate(w io.Writer, mgr *backup.Manager, arg string) error {
	path, err := targetPath(arg)
	if err != nil {
		return err
	}

	before, _ := mgr.List(path)
	manifest, err := mgr.Backup(path)
	if errors.Is(err, os.ErrNotExist) {
		return errors.NewUserError(err, "Check the file path")
	}
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	if len(before) > 0 && before[0].ID == manifest.ID {
		fmt.Fprintf(w, "%s is unchanged since %s\n", path, manifest.ID)
		return nil
	}
	fmt.Fprintf(w, "Created backup %s\n", manifest.ID)
	return nil
}
