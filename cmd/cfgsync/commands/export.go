package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/paths"
	"github.com/thoreinstein/cfgsync/internal/translate"
)

var exportFormat string

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(translate.YAML),
		fmt.Sprintf("output format: %s", formatNames()))
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <config>",
	Short: "Print a config file in another format",
	Long: `Print a config file as YAML or TOML.

YAML output is normalized to the indent setting and keeps comments. TOML
output carries values only.`,
	Example: `  # Convert to TOML
  cfgsync export config.yaml --format toml > config.toml

  See Also: cfgsync get, cfgsync migrate`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	format, err := translate.ParseFormat(exportFormat)
	if err != nil {
		return errors.NewUserError(err, "Use --format "+formatNames())
	}
	path, err := paths.Expand(args[0])
	if err != nil {
		return errors.NewUserError(err, "Check the config path")
	}

	doc, err := translate.Read(path)
	if err != nil {
		return errors.NewUserError(err, "Check that the file exists and is valid")
	}
	doc.SetIndent(cfg.Indent)

	data, err := translate.Export(doc, format)
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func formatNames() string {
	names := make([]string, 0, len(translate.Formats()))
	for _, f := range translate.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
