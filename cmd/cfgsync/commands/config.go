package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/cfgsync/internal/config"
	"github.com/thoreinstein/cfgsync/internal/editor"
	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/paths"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cfgsync settings",
	Long: `Manage the settings of cfgsync itself, stored in
$XDG_CONFIG_HOME/cfgsync/config.yaml, or in .cfgsync.yaml when the current
directory has one.

Every setting can be overridden with an environment variable named
CFGSYNC_ followed by the key in upper case with dots replaced by
underscores, e.g. CFGSYNC_BACKUP_KEEP=10.

Without a subcommand, lists all settings.`,
	Example: `  # List all settings
  cfgsync config

  # Get a specific value
  cfgsync config get indent

  # Set a value
  cfgsync config set schema ~/shop/shop.schema.yaml

See Also: cfgsync apply`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a setting",
	Long:  `Get a single setting by key. Nested keys use dot notation.`,
	Example: `  cfgsync config get backup.keep

See Also: cfgsync config set, cfgsync config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Long: `Validate a setting and write it to the settings file, creating the
file if needed.`,
	Example: `  # Use four spaces per level
  cfgsync config set indent 4

  # Keep ten snapshots per file
  cfgsync config set backup.keep 10

See Also: cfgsync config get, cfgsync config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Long:  `List all settings in YAML format, including defaults.`,
	Example: `  cfgsync config list

See Also: cfgsync config get, cfgsync config set`,
	RunE: runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Long: `Print the settings file in use, or the path a new one would be
written to.`,
	Example: `  cfgsync config path

See Also: cfgsync config edit`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigCheck: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), settingsPath())
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the settings file in $EDITOR",
	Long: `Open the settings file in your editor ($VISUAL, then $EDITOR, then
nano or vi). A missing file is created with the current settings first.`,
	Example: `  EDITOR=nano cfgsync config edit

See Also: cfgsync config path`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigCheck: "true"},
	RunE:        runConfigEdit,
}

// settingsPath returns the settings file Viper read, else the default
// location.
func settingsPath() string {
	if used := config.FileUsed(); used != "" {
		return used
	}
	return paths.ConfigFile()
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !config.IsKnownKey(key) {
		return errors.NewUserError(errors.Wrapf(config.ErrUnknownKey, "%q", key), "Run: cfgsync config list")
	}

	w := cmd.OutOrStdout()
	switch v := viper.Get(key).(type) {
	case nil:
		fmt.Fprintln(w, "not set")
	case []any:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	default:
		fmt.Fprintln(w, viper.GetString(key))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := config.Set(key, value); err != nil {
		return errors.NewUserError(err, "Run: cfgsync config list")
	}

	path := settingsPath()
	if err := config.Save(path); err != nil {
		return errors.NewSystemError(err, "")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, viper.GetString(key), path)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	return writeYAML(cmd.OutOrStdout(), cfg)
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := settingsPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.Save(path); err != nil {
			return errors.NewSystemError(err, "")
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Location: %s\n", path)
	if err := editor.Open(cmd.Context(), path, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
		return errors.NewUserError(err, "Set $EDITOR to your preferred editor")
	}

	if _, err := config.Load(path); err != nil {
		return errors.NewConfigError(err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	return errors.Wrap(enc.Close(), "flushing output")
}
