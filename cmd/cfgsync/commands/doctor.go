package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/internal/config"
	"github.com/thoreinstein/cfgsync/internal/doctor"
	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/paths"
)

var (
	doctorSchema string
	doctorJSON   bool
)

func init() {
	addSchemaFlag(doctorCmd, &doctorSchema)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor [file...]",
	Short: "Diagnose settings, schema and config files",
	Long: `Run diagnostic checks and report problems.

The settings file, the schema and the snapshot directory are always
checked. Each file argument is also checked for drift: keys the schema
declares that are missing, or comments that apply would rewrite. Nothing
is written except a probe file in the snapshot directory.

Exits with status 1 when any check reports an error.`,
	Example: `  cfgsync doctor
  cfgsync doctor config.yaml --json

  See Also: cfgsync apply --dry-run`,
	Annotations: map[string]string{skipConfigCheck: "true"},
	RunE:        runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	// Broken settings are reported by a check, not returned
	cfg, err := config.Current()
	if err != nil {
		cfg = config.Default()
	}

	runner := doctor.NewRunner(&doctor.SettingsCheck{File: config.FileUsed(), Err: configLoadErr})

	schemaPath := doctorSchema
	if schemaPath == "" {
		schemaPath = cfg.Schema
	}
	if schemaPath != "" {
		if schemaPath, err = paths.Expand(schemaPath); err != nil {
			return errors.NewUserError(err, "Check the schema path")
		}
	}
	runner.AddCheck(&doctor.SchemaCheck{Path: schemaPath})

	backupDir := paths.BackupDir()
	if cfg.Backup.Dir != "" {
		if backupDir, err = paths.Expand(cfg.Backup.Dir); err != nil {
			return errors.NewConfigError(err)
		}
	}
	runner.AddCheck(&doctor.BackupCheck{Enabled: cfg.Backup.Enabled, Dir: backupDir})

	if len(args) > 0 {
		f, err := loadSchema(schemaPath, cfg)
		if err != nil {
			return err
		}
		for _, arg := range args {
			path, err := paths.Expand(arg)
			if err != nil {
				return errors.NewUserError(err, "Check the file path")
			}
			runner.AddCheck(&doctor.DriftCheck{Path: path, Schema: f, Indent: cfg.Indent})
		}
	}

	report := runner.Run(cmd.Context())

	out := cmd.OutOrStdout()
	if doctorJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.NewSystemError(err, "")
		}
	} else {
		writeReport(out, report)
	}

	if report.HasErrors() {
		return errors.NewUserError(
			errors.Newf("doctor found %d problem(s)", report.Summary.Errors),
			"See the HINT column of the report")
	}
	return nil
}

func writeReport(w io.Writer, report *doctor.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"CHECK", "STATUS", "MESSAGE", "HINT"})
	for _, r := range report.Results {
		msg := r.Message
		if details := formatDetails(r.Details); details != "" {
			msg += "\n" + details
		}
		t.AppendRow(table.Row{r.Name, strings.ToUpper(r.Status.String()), msg, r.FixHint})
	}
	t.Render()

	s := report.Summary
	fmt.Fprintf(w, "%d passed, %d info, %d warning(s), %d error(s)\n", s.Passed, s.Info, s.Warnings, s.Errors)
}

func formatDetails(details map[string]any) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		v := details[k]
		if list, ok := v.([]string); ok {
			v = strings.Join(list, ", ")
		}
		lines = append(lines, k+": "+cast.ToString(v))
	}
	return strings.Join(lines, "\n")
}
