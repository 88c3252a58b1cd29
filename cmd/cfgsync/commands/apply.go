package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/cmd/cfgsync/commands/backup"
	backupmgr "github.com/thoreinstein/cfgsync/internal/backup"
	"github.com/thoreinstein/cfgsync/internal/config"
	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/logging"
	"github.com/thoreinstein/cfgsync/internal/paths"
	"github.com/thoreinstein/cfgsync/internal/schema"
	"github.com/thoreinstein/cfgsync/internal/watch"
	"github.com/thoreinstein/cfgsync/pkg/binding"
	"github.com/thoreinstein/cfgsync/pkg/fileutil"
)

var (
	applySchema string
	applyDryRun bool
	applyWatch  bool
)

func init() {
	addSchemaFlag(applyCmd, &applySchema)
	applyCmd.Flags().BoolVarP(&applyDryRun, "dry-run", "n", false,
		"print the result instead of writing it")
	applyCmd.Flags().BoolVarP(&applyWatch, "watch", "w", false,
		"apply again whenever the file changes")
	applyCmd.MarkFlagsMutuallyExclusive("dry-run", "watch")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply <config>",
	Short: "Fill in missing keys and comments of a config file",
	Long: `Run a load pass of the schema against a configuration file and write
the file back.

Keys that are present keep their values. Keys that are missing are written
with the schema default. Sections that do not exist yet are created with
their seed entries. Comments declared in the schema are attached to their
keys. A missing file is created.

Before the file is rewritten a snapshot is stored (see cfgsync backup).
Nothing is written when the result equals the current content.`,
	Example: `  # Apply the configured schema
  cfgsync apply config.yaml

  # Apply a specific schema and show the result
  cfgsync apply config.yaml --schema shop.schema.yaml --dry-run

  # Keep applying while the file is edited
  cfgsync apply config.yaml --watch

  See Also: cfgsync migrate, cfgsync bindings, cfgsync backup list`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

// applier runs load passes against one file.
type applier struct {
	path    string
	file    *schema.File
	cfg     *config.Config
	logger  *slog.Logger
	out     io.Writer
	dryRun  bool
	backups *backupmgr.Manager
	watcher *watch.Watcher
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	path, err := paths.Expand(args[0])
	if err != nil {
		return errors.NewUserError(err, "Check the config path")
	}
	file, err := loadSchema(applySchema, cfg)
	if err != nil {
		return err
	}

	a := &applier{
		path:   path,
		file:   file,
		cfg:    cfg,
		logger: logging.FromContext(cmd.Context()),
		out:    cmd.OutOrStdout(),
		dryRun: applyDryRun,
	}
	if cfg.Backup.Enabled && !applyDryRun {
		if a.backups, err = backup.NewManager(cfg); err != nil {
			return err
		}
	}

	if !applyWatch {
		return a.apply(cmd.Context())
	}

	a.watcher, err = watch.New(path, watch.WithDebounce(cfg.Watch.Debounce), watch.WithLogger(a.logger))
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	if err := a.apply(cmd.Context()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(a.out, "Watching %s (Ctrl-C to stop)\n", path)
	return errors.Wrap(a.watcher.Run(ctx, a.apply), "watching config")
}

// apply runs one load pass and writes the file if it changed.
func (a *applier) apply(_ context.Context) error {
	doc, exists, err := openDocument(a.path, a.cfg.Indent, headerFor(a.file, a.cfg))
	if err != nil {
		return err
	}
	_, set, err := schema.Build(a.file)
	if err != nil {
		return errors.NewUserError(err, "Fix the schema file")
	}

	syncer := binding.NewSynchronizer(binding.WithLogger(a.logger))
	if err := syncer.Load(doc, set); err != nil {
		return passError(err)
	}

	data, err := doc.Bytes()
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	if a.dryRun {
		_, err := a.out.Write(data)
		return err
	}

	if exists {
		current, err := fileutil.ReadFileWithLimit(a.path)
		if err == nil && bytes.Equal(current, data) {
			a.logger.Info("config up to date", "path", a.path)
			fmt.Fprintf(a.out, "%s is up to date\n", a.path)
			return nil
		}
		if a.backups != nil {
			if err := a.backups.EnsureBackedUp(a.path); err != nil {
				return errors.NewSystemError(err, "Disable snapshots with: cfgsync config set backup.enabled false")
			}
		}
	}

	if a.watcher != nil {
		a.watcher.MarkWritten(data)
	}
	if err := fileutil.AtomicWriteFile(a.path, data, fileutil.PermOf(a.path)); err != nil {
		return errors.NewSystemError(err, "Check that the directory exists and is writable")
	}
	a.logger.Info("config written", "path", a.path, "created", !exists)
	if exists {
		fmt.Fprintf(a.out, "Updated %s\n", a.path)
	} else {
		fmt.Fprintf(a.out, "Created %s\n", a.path)
	}
	return nil
}
