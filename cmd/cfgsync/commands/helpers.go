package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/cfgsync/internal/config"
	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/paths"
	"github.com/thoreinstein/cfgsync/internal/schema"
	"github.com/thoreinstein/cfgsync/pkg/binding"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

// addSchemaFlag registers --schema on c, bound to target.
func addSchemaFlag(c *cobra.Command, target *string) {
	c.Flags().StringVarP(target, "schema", "s", "",
		"schema file (default: the schema setting)")
}

// currentConfig returns the effective settings.
func currentConfig() (*config.Config, error) {
	cfg, err := config.Current()
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	return cfg, nil
}

// loadSchema reads the schema named by the flag, falling back to the
// schema setting.
func loadSchema(flagValue string, cfg *config.Config) (*schema.File, error) {
	path := flagValue
	if path == "" {
		path = cfg.Schema
	}
	if path == "" {
		return nil, errors.NewUserError(errors.New("no schema file given"),
			"Pass --schema <file> or run: cfgsync config set schema <file>")
	}

	expanded, err := paths.Expand(path)
	if err != nil {
		return nil, errors.NewUserError(err, "Check the schema path")
	}
	f, err := schema.Load(expanded)
	switch {
	case err == nil:
		return f, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, errors.NewUserError(err, "Check the schema path")
	case errors.Is(err, errors.ErrInvalidSchema):
		return nil, errors.NewUserError(err, "Run: cfgsync schema > schema.json to validate schema files in your editor")
	}
	return nil, errors.NewSystemError(err, "")
}

// openDocument loads the config file at path. A missing file yields an
// empty document carrying header. The second result reports whether the
// file existed.
func openDocument(path string, indent int, header string) (*store.Document, bool, error) {
	doc, err := store.Load(path)
	exists := true
	switch {
	case errors.Is(err, os.ErrNotExist):
		doc, exists = store.New(), false
		if header != "" {
			doc.SetHeader(header)
		}
	case errors.Is(err, store.ErrNotMapping):
		return nil, false, errors.NewUserError(err, "The configuration file must be a YAML mapping")
	case err != nil:
		return nil, false, errors.NewUserError(err, "Check that the file is valid YAML")
	}
	doc.SetIndent(indent)
	return doc, exists, nil
}

// headerFor picks the header written to new files: the schema's, else the
// header setting.
func headerFor(f *schema.File, cfg *config.Config) string {
	if f.Header != "" {
		return f.Header
	}
	return cfg.Header
}

// passError classifies a failed load or save pass. A value of the wrong
// shape in the file is the user's to fix; anything else is a system error.
func passError(err error) error {
	var accessErr *binding.BindingAccessError
	if errors.As(err, &accessErr) &&
		(errors.Is(err, binding.ErrNotSection) || errors.Is(err, binding.ErrNotAssignable)) {
		return errors.NewUserError(err,
			fmt.Sprintf("Check the type of the value bound to %s in the file", accessErr.Field))
	}
	return errors.NewSystemError(err, "")
}
