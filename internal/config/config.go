package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/paths"
	"github.com/thoreinstein/cfgsync/pkg/fileutil"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "CFGSYNC"

// ProjectFile is the settings file looked for in the current directory. It
// takes precedence over the file in the config directory.
const ProjectFile = ".cfgsync.yaml"

// Setting keys.
const (
	KeyVersion       = "version"
	KeyIndent        = "indent"
	KeySchema        = "schema"
	KeyHeader        = "header"
	KeyBackupEnabled = "backup.enabled"
	KeyBackupKeep    = "backup.keep"
	KeyBackupDir     = "backup.dir"
	KeyWatchDebounce = "watch.debounce"
)

// Config is the top-level settings structure.
type Config struct {
	Version int          `mapstructure:"version" yaml:"version"`
	Indent  int          `mapstructure:"indent" yaml:"indent"`
	Schema  string       `mapstructure:"schema" yaml:"schema,omitempty"`
	Header  string       `mapstructure:"header" yaml:"header,omitempty"`
	Backup  BackupConfig `mapstructure:"backup" yaml:"backup"`
	Watch   WatchConfig  `mapstructure:"watch" yaml:"watch"`
}

// BackupConfig controls snapshots taken before a file is rewritten.
type BackupConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Keep    int    `mapstructure:"keep" yaml:"keep"`
	Dir     string `mapstructure:"dir" yaml:"dir,omitempty"`
}

// WatchConfig controls apply --watch.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// MarshalYAML writes the debounce as a duration string such as "500ms".
func (w WatchConfig) MarshalYAML() (any, error) {
	return map[string]string{"debounce": w.Debounce.String()}, nil
}

// Init resets Viper and installs search paths, environment binding and
// defaults. Call it once at startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	def := Default()
	viper.SetDefault(KeyVersion, def.Version)
	viper.SetDefault(KeyIndent, def.Indent)
	viper.SetDefault(KeySchema, def.Schema)
	viper.SetDefault(KeyHeader, def.Header)
	viper.SetDefault(KeyBackupEnabled, def.Backup.Enabled)
	viper.SetDefault(KeyBackupKeep, def.Backup.Keep)
	viper.SetDefault(KeyBackupDir, def.Backup.Dir)
	viper.SetDefault(KeyWatchDebounce, def.Watch.Debounce)
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Version: 1,
		Indent:  2,
		Backup: BackupConfig{
			Enabled: true,
			Keep:    5,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Load reads the settings file. An explicit path must exist. With an empty
// path, ProjectFile in the current directory is used if present, then
// config.yaml in the config directory; neither existing means defaults.
func Load(path string) (*Config, error) {
	switch {
	case path != "":
		viper.SetConfigFile(path)
	case fileExists(ProjectFile):
		viper.SetConfigFile(ProjectFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			if path != "" {
				return nil, errors.Wrapf(errors.ErrNotFound, "config file %s", path)
			}
		case path != "" && os.IsNotExist(err):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file %s", path)
		default:
			return nil, errors.Mark(errors.Wrap(err, "reading config file"), errors.ErrInvalidConfig)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// Current returns the settings as Viper holds them now, including
// values changed with Set.
func Current() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}

// Set validates and stores one setting in memory.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return errors.Wrapf(ErrUnknownKey, "%q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	previous := viper.Get(key)
	viper.Set(key, value)

	cfg, err := Current()
	if err == nil {
		if errs := Validate(cfg); len(errs) > 0 {
			err = errs[0]
		}
	}
	if err != nil {
		viper.Set(key, previous)
		return errors.Wrapf(err, "setting %s", key)
	}
	return nil
}

// Save writes the current settings to path, creating its directory.
func Save(path string) error {
	cfg, err := Current()
	if err != nil {
		return err
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, cfg, 2); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}

// Keys returns the known setting keys in display order.
func Keys() []string {
	return []string{
		KeyVersion,
		KeyIndent,
		KeySchema,
		KeyHeader,
		KeyBackupEnabled,
		KeyBackupKeep,
		KeyBackupDir,
		KeyWatchDebounce,
	}
}

// IsKnownKey reports whether key names a setting.
func IsKnownKey(key string) bool {
	return slices.Contains(Keys(), key)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// FileUsed returns the settings file Load read, if any.
func FileUsed() string {
	return viper.ConfigFileUsed()
}
