package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/cmd/cfgsync/commands/backup"
	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/logging"
	"github.com/thoreinstein/cfgsync/internal/paths"
	"github.com/thoreinstein/cfgsync/internal/schema"
	"github.com/thoreinstein/cfgsync/internal/translate"
	"github.com/thoreinstein/cfgsync/pkg/binding"
	"github.com/thoreinstein/cfgsync/pkg/fileutil"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

var (
	migrateSchema string
	migrateForce  bool
)

func init() {
	addSchemaFlag(migrateCmd, &migrateSchema)
	migrateCmd.Flags().BoolVarP(&migrateForce, "force", "f", false,
		"overwrite the destination if it exists")
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate <src> <dst>",
	Short: "Rewrite a config file in the layout of the schema",
	Long: `Read every declared field from src, then write them into a fresh file
at dst.

Keys are written in schema order with the schema's comments. Sections are
copied with all their entries, after which their seed entries are applied
again, so seeds win over stored values. Keys the schema does not declare
are dropped.

The source may be YAML or TOML, chosen by its extension. The destination
is always YAML.`,
	Example: `  # Reorder and re-comment a config file
  cfgsync migrate old.yaml config.yaml

  # Convert a legacy TOML file
  cfgsync migrate settings.toml config.yaml --schema shop.schema.yaml

  See Also: cfgsync apply, cfgsync export`,
	Args: cobra.ExactArgs(2),
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	src, err := paths.Expand(args[0])
	if err != nil {
		return errors.NewUserError(err, "Check the source path")
	}
	dst, err := paths.Expand(args[1])
	if err != nil {
		return errors.NewUserError(err, "Check the destination path")
	}
	file, err := loadSchema(migrateSchema, cfg)
	if err != nil {
		return err
	}

	_, dstErr := os.Stat(dst)
	dstExists := dstErr == nil
	if dstExists && !migrateForce && src != dst {
		return errors.NewUserError(errors.Newf("%s already exists", dst), "Pass --force to overwrite it")
	}

	in, err := translate.Read(src)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return errors.NewUserError(err, "Check the source path")
	case errors.Is(err, translate.ErrUnsupportedFormat):
		return errors.NewUserError(err, "The source must end in .yaml, .yml or .toml")
	case err != nil:
		return errors.NewUserError(err, "Check that the source file is valid")
	}

	_, set, err := schema.Build(file)
	if err != nil {
		return errors.NewUserError(err, "Fix the schema file")
	}
	syncer := binding.NewSynchronizer(binding.WithLogger(logger))
	if err := syncer.Load(in, set); err != nil {
		return passError(err)
	}

	out := store.New()
	out.SetIndent(cfg.Indent)
	if header := headerFor(file, cfg); header != "" {
		out.SetHeader(header)
	}
	if err := syncer.Save(out, set); err != nil {
		return passError(err)
	}
	data, err := out.Bytes()
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	if dstExists && cfg.Backup.Enabled {
		mgr, err := backup.NewManager(cfg)
		if err != nil {
			return err
		}
		if err := mgr.EnsureBackedUp(dst); err != nil {
			return errors.NewSystemError(err, "Disable snapshots with: cfgsync config set backup.enabled false")
		}
	}
	if err := fileutil.AtomicWriteFile(dst, data, fileutil.PermOf(dst)); err != nil {
		return errors.NewSystemError(err, "Check that the directory exists and is writable")
	}

	logger.Info("config migrated", "src", src, "dst", dst, "bindings", set.Len())
	fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s to %s\n", src, dst)
	return nil
}
