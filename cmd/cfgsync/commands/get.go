package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/paths"
	"github.com/thoreinstein/cfgsync/internal/translate"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <config> <path>",
	Short: "Print a value from a config file",
	Long: `Print the value stored at a dotted path of a config file.

Lists are printed one item per line. A section prints its keys, one per
line. The file is not modified.`,
	Example: `  # Print a scalar
  cfgsync get config.yaml server.port

  # Print the keys of a section
  cfgsync get config.yaml limits

  See Also: cfgsync apply, cfgsync export`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGet(cmd.OutOrStdout(), args[0], args[1])
	},
}

func runGet(w io.Writer, file, key string) error {
	path, err := paths.Expand(file)
	if err != nil {
		return errors.NewUserError(err, "Check the config path")
	}
	doc, err := translate.Read(path)
	if err != nil {
		return errors.NewUserError(err, "Check that the file exists and is valid")
	}

	if _, err := store.SplitPath(key); err != nil {
		return errors.NewUserError(err, "Paths are dot-separated keys, e.g. server.port")
	}
	v, ok := doc.Get(key)
	if !ok {
		return errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "%s has no key %q", path, key), "")
	}

	switch val := v.(type) {
	case store.Section:
		for _, k := range val.Keys(false) {
			fmt.Fprintln(w, k)
		}
	case []any:
		for _, item := range val {
			fmt.Fprintln(w, cast.ToString(item))
		}
	default:
		fmt.Fprintln(w, cast.ToString(val))
	}
	return nil
}
