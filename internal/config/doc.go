// Package config manages cfgsync's own settings using Viper.
//
// Settings are read from .cfgsync.yaml in the current directory when it
// exists, else from config.yaml in the cfgsync config directory (see
// [paths.ConfigDir]). Every key
// can be overridden with a CFGSYNC_ environment variable, using _ in place
// of the dot for nested keys:
//
//	version: 1
//	indent: 2                # spaces per level in rewritten files
//	schema: ~/shop.schema.yaml
//	header: Managed by cfgsync
//	backup:
//	  enabled: true
//	  keep: 5
//	watch:
//	  debounce: 500ms
//
// Call [Init] once before [Load]. Loaded settings are validated; [Validate]
// returns every problem found, not just the first.
package config
