// Package translate converts configuration documents between YAML and TOML.
//
// YAML is the native format of cfgsync. TOML is supported as an export
// target and as a migration source for projects that kept their settings
// in a TOML file. Comments do not survive a conversion in either direction.
package translate
