package backup

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/internal/backup"
	"github.com/thoreinstein/cfgsync/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List snapshots of a file",
	Long:  `List the snapshots of a config file, most recent first.`,
	Example: `  # List snapshots
  cfgsync backup list config.yaml

  # Output as JSON
  cfgsync backup list config.yaml --json

  See Also:
    cfgsync backup restore - Restore a snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := managerFromSettings()
		if err != nil {
			return err
		}
		return runList(cmd.OutOrStdout(), mgr, args[0])
	},
}

// infoOutput represents a single snapshot in JSON output.
type infoOutput struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	Size        int64  `json:"size"`
	SHA256Hash  string `json:"sha256_hash"`
	ToolVersion string `json:"tool_version"`
}

func runList(w io.Writer, mgr *backup.Manager, arg string) error {
	path, err := targetPath(arg)
	if err != nil {
		return err
	}

	manifests, err := mgr.List(path)
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrapf(err, "listing backups for %s", path)
	}

	if listJSON {
		out := make([]infoOutput, len(manifests))
		for i, m := range manifests {
			out[i] = infoOutput{
				ID:          m.ID,
				CreatedAt:   m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
				Size:        m.Size,
				SHA256Hash:  m.SHA256Hash,
				ToolVersion: m.ToolVersion,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding output")
	}

	if len(manifests) == 0 {
		fmt.Fprintf(w, "No backups of %s\n", path)
		fmt.Fprintln(w, "Snapshots are taken automatically before cfgsync rewrites a file.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "CREATED", "SIZE", "VERSION"})
	for _, m := range manifests {
		t.AppendRow(table.Row{
			m.ID,
			m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			m.Size,
			m.ToolVersion,
		})
	}
	t.Render()
	return nil
}
