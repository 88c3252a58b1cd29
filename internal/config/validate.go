package config

import (
	"strings"
	"time"

	"github.com/thoreinstein/cfgsync/internal/errors"
)

// Validation errors for settings.
var (
	// ErrUnsupportedVersion indicates a settings version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidIndent indicates an indent outside 2..8.
	ErrInvalidIndent = errors.New("indent must be between 2 and 8")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidValue indicates a value outside its allowed range.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnknownKey indicates a setting key that does not exist.
	ErrUnknownKey = errors.New("unknown config key")
)

// Validate checks a Config and returns every problem found.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error
	if cfg.Version != 1 {
		errs = append(errs, errors.Wrapf(ErrUnsupportedVersion, "%d", cfg.Version))
	}
	if cfg.Indent < 2 || cfg.Indent > 8 {
		errs = append(errs, errors.Wrapf(ErrInvalidIndent, "got %d", cfg.Indent))
	}
	if err := validatePath(cfg.Schema); err != nil {
		errs = append(errs, &PathError{Field: KeySchema, Path: cfg.Schema, Err: err})
	}
	if err := validatePath(cfg.Backup.Dir); err != nil {
		errs = append(errs, &PathError{Field: KeyBackupDir, Path: cfg.Backup.Dir, Err: err})
	}
	if cfg.Backup.Keep < 1 {
		errs = append(errs, errors.Wrapf(ErrInvalidValue, "%s must be at least 1", KeyBackupKeep))
	}
	if cfg.Watch.Debounce < 0 || cfg.Watch.Debounce > time.Minute {
		errs = append(errs, errors.Wrapf(ErrInvalidValue, "%s must be between 0 and 1m", KeyWatchDebounce))
	}
	return errs
}

// validatePath checks that a path is well-formed. Empty means unset.
func validatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	return nil
}

// PathError reports a malformed path setting.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
