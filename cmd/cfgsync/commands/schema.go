package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/schema"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of schema files",
	Long: `Print a JSON Schema describing cfgsync schema files.

Point your editor's YAML language server at it to get completion and
validation while writing schema files.`,
	Example: `  cfgsync schema > cfgsync.schema.json

  See Also: cfgsync bindings`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigCheck: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := schema.JSONSchemaBytes()
		if err != nil {
			return errors.NewSystemError(err, "")
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
