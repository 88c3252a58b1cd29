// Package fileutil reads and replaces configuration files without leaving
// half-written files behind.
package fileutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/cfgsync/internal/errors"
)

// DefaultFilePerm applies to files that do not exist yet.
const DefaultFilePerm os.FileMode = 0o644

// AtomicWriteFile replaces path with data. The bytes go to a temporary
// sibling that is synced and renamed over path, so readers see either the
// old or the new content. The parent directory must exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	renamed := false
	defer func() {
		if !renamed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err := tmp.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replacing %s", path)
	}
	renamed = true
	return nil
}

// PermOf returns the permission bits of path, or DefaultFilePerm if it
// cannot be read.
func PermOf(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return DefaultFilePerm
}

// AtomicWriteYAML encodes v with the given indent (at least 2) and replaces
// path, keeping its permissions.
func AtomicWriteYAML(path string, v any, indent int) (err error) {
	// The encoder panics on values such as channels
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("encoding YAML: %v", r)
		}
	}()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(max(indent, 2))
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encoding YAML")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "encoding YAML")
	}
	return AtomicWriteFile(path, buf.Bytes(), PermOf(path))
}

// AtomicWriteJSON replaces path with v as indented JSON.
func AtomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	data = append(data, '\n')
	return AtomicWriteFile(path, data, PermOf(path))
}
