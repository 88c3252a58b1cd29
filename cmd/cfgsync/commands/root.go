// Package commands implements the CLI commands for cfgsync.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/cmd"
	"github.com/thoreinstein/cfgsync/cmd/cfgsync/commands/backup"
	"github.com/thoreinstein/cfgsync/internal/config"
	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/logging"
)

// skipConfigCheck marks commands that run even when the settings file is
// broken, so the user can inspect or repair it.
const skipConfigCheck = "cfgsync/skip-config-check"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// openLogFile is the --log-file handle, closed when Execute returns.
var openLogFile *os.File

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"settings file (default: ./.cfgsync.yaml or $XDG_CONFIG_HOME/cfgsync/config.yaml)")

	rootCmd.AddCommand(backup.Cmd)

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("cfgsync version {{.Version}}\n")

	// Errors are printed by Execute
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	_, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "cfgsync",
	Short: "Keep configuration fields and YAML files in sync",
	Long: `cfgsync binds declared configuration fields to keys of a YAML file.

A schema file lists the fields, the key each one is bound to, its type,
default value and comment. Applying the schema to a configuration file
reads the values that are present, writes defaults for the ones that are
missing, and keeps every comment next to the key it describes.

Sections can be seeded with default entries the first time they are
created. After that the user owns their contents.`,
	Example: `  # Fill in missing keys of a config file
  cfgsync apply config.yaml --schema shop.schema.yaml

  # Preview the result without writing
  cfgsync apply config.yaml --dry-run

  # Show what a schema declares
  cfgsync bindings --schema shop.schema.yaml

  See Also: cfgsync config, cfgsync backup`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"), "cannot use --quiet and --verbose together")
	}

	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return errors.NewUserError(err, "use --log-format text or json")
	}

	level := slog.LevelError
	if !quiet {
		level = logging.LevelFromVerbosity(verbosity)
	}

	logger := logging.New(logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})

	if logFile != "" && openLogFile == nil {
		fileLogger, f, err := logging.NewFile(logFile, level)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		openLogFile = f
		logger = logging.Tee(logger, fileLogger)
	}

	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports a settings file that failed to load.
func checkConfig(cmd *cobra.Command) error {
	if configLoadErr == nil || cmd.Name() == "help" {
		return nil
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigCheck] == "true" {
			return nil
		}
	}
	return errors.NewConfigError(configLoadErr)
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	defer func() {
		if openLogFile != nil {
			_ = openLogFile.Close()
			openLogFile = nil
		}
	}()

	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return errors.Wrap(err, "executing root command")
}

// printError writes err and any suggestion attached to it.
func printError(w io.Writer, err error) {
	label := color.New(color.FgRed, color.Bold)
	hint := color.New(color.FgYellow)
	if !logging.SupportsColor(w) {
		label.DisableColor()
		hint.DisableColor()
	}

	_, _ = label.Fprint(w, "Error: ")
	_, _ = fmt.Fprintln(w, err)

	if suggestion := errors.Suggestion(err); suggestion != "" {
		_, _ = hint.Fprintln(w, suggestion)
	}
}
