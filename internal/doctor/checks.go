package doctor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/paths"
	"github.com/thoreinstein/cfgsync/internal/schema"
	"github.com/thoreinstein/cfgsync/pkg/binding"
	"github.com/thoreinstein/cfgsync/pkg/fileutil"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

// SettingsCheck reports how the settings file loaded.
type SettingsCheck struct {
	// File is the settings file that was read; empty means defaults.
	File string
	// Err is the error from loading it.
	Err error
}

// Name implements Check.
func (c *SettingsCheck) Name() string { return "settings" }

// Category implements Check.
func (c *SettingsCheck) Category() string { return "settings" }

// Run implements Check.
func (c *SettingsCheck) Run(context.Context) *CheckResult {
	switch {
	case c.Err != nil:
		return &CheckResult{
			Status:  SeverityError,
			Message: c.Err.Error(),
			FixHint: "Run: cfgsync config edit",
		}
	case c.File == "":
		return &CheckResult{
			Status:  SeverityInfo,
			Message: "no settings file, using defaults",
			Details: map[string]any{"would_create": paths.ConfigFile()},
		}
	}
	return &CheckResult{Status: SeverityPass, Message: "settings loaded from " + c.File}
}

// SchemaCheck loads and builds a schema file.
type SchemaCheck struct {
	Path string
}

// Name implements Check.
func (c *SchemaCheck) Name() string { return "schema" }

// Category implements Check.
func (c *SchemaCheck) Category() string { return "schema" }

// Run implements Check.
func (c *SchemaCheck) Run(context.Context) *CheckResult {
	if c.Path == "" {
		return &CheckResult{
			Status:  SeverityWarning,
			Message: "no schema configured",
			FixHint: "Run: cfgsync config set schema <file>",
		}
	}
	f, err := schema.Load(c.Path)
	if err == nil {
		_, _, err = schema.Build(f)
	}
	if err != nil {
		return &CheckResult{
			Status:  SeverityError,
			Message: err.Error(),
			Details: map[string]any{"path": c.Path},
			FixHint: "Run: cfgsync schema > cfgsync.schema.json to validate schema files in your editor",
		}
	}
	return &CheckResult{
		Status:  SeverityPass,
		Message: "schema is valid",
		Details: map[string]any{
			"path":     c.Path,
			"fields":   len(f.Fields),
			"sections": len(f.Sections),
		},
	}
}

// BackupCheck verifies the snapshot directory is writable.
type BackupCheck struct {
	Enabled bool
	Dir     string
}

// Name implements Check.
func (c *BackupCheck) Name() string { return "backup-dir" }

// Category implements Check.
func (c *BackupCheck) Category() string { return "backup" }

// Run implements Check.
func (c *BackupCheck) Run(context.Context) *CheckResult {
	if !c.Enabled {
		return &CheckResult{
			Status:  SeverityInfo,
			Message: "snapshots are disabled",
			FixHint: "Run: cfgsync config set backup.enabled true",
		}
	}
	details := map[string]any{"dir": c.Dir}
	if err := paths.EnsureDir(c.Dir, 0); err != nil {
		return &CheckResult{Status: SeverityError, Message: "cannot create snapshot directory", Details: details, FixHint: "Run: cfgsync config set backup.dir <dir>"}
	}
	probe, err := os.CreateTemp(c.Dir, ".probe-*")
	if err != nil {
		return &CheckResult{Status: SeverityError, Message: "snapshot directory is not writable", Details: details, FixHint: "Run: cfgsync config set backup.dir <dir>"}
	}
	probe.Close()
	os.Remove(probe.Name())
	return &CheckResult{Status: SeverityPass, Message: "snapshot directory is writable", Details: details}
}

// DriftCheck reports whether applying the schema would change a config file.
type DriftCheck struct {
	Path   string
	Schema *schema.File
	Indent int
}

// Name implements Check.
func (c *DriftCheck) Name() string { return "drift:" + filepath.Base(c.Path) }

// Category implements Check.
func (c *DriftCheck) Category() string { return "file" }

// Run implements Check.
func (c *DriftCheck) Run(context.Context) *CheckResult {
	details := map[string]any{"path": c.Path}
	hint := "Run: cfgsync apply " + c.Path

	current, err := fileutil.ReadFileWithLimit(c.Path)
	if errors.Is(err, os.ErrNotExist) {
		return &CheckResult{Status: SeverityWarning, Message: "file does not exist yet", Details: details, FixHint: hint}
	}
	if err != nil {
		return &CheckResult{Status: SeverityError, Message: err.Error(), Details: details}
	}
	doc, err := store.Parse(current)
	if err != nil {
		return &CheckResult{Status: SeverityError, Message: err.Error(), Details: details, FixHint: "Fix the YAML syntax"}
	}
	doc.SetIndent(c.Indent)

	_, set, err := schema.Build(c.Schema)
	if err != nil {
		return &CheckResult{Status: SeverityError, Message: err.Error(), Details: details}
	}
	var missing []string
	for _, b := range set.Bindings() {
		if !doc.Contains(b.Target()) {
			missing = append(missing, b.Target())
		}
	}

	if err := binding.Load(doc, set); err != nil {
		return &CheckResult{Status: SeverityError, Message: err.Error(), Details: details}
	}
	want, err := doc.Bytes()
	if err != nil {
		return &CheckResult{Status: SeverityError, Message: err.Error(), Details: details}
	}

	switch {
	case len(missing) > 0:
		details["missing"] = missing
		return &CheckResult{Status: SeverityWarning, Message: "declared keys are missing", Details: details, FixHint: hint}
	case !bytes.Equal(current, want):
		return &CheckResult{Status: SeverityWarning, Message: "comments or layout differ from the schema", Details: details, FixHint: hint}
	}
	return &CheckResult{Status: SeverityPass, Message: "in sync with the schema", Details: details}
}
