package translate

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/pkg/fileutil"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

// Format names a configuration file format.
type Format string

// Supported formats.
const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ErrUnsupportedFormat indicates a format name or extension cfgsync cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{YAML, TOML}
}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "%q", name)
}

// FormatOf infers the format from the extension of path.
func FormatOf(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.Wrapf(ErrUnsupportedFormat, "%s has no extension", path)
	}
	return ParseFormat(ext)
}

// Export renders doc in format. YAML output keeps comments and
// indentation; TOML output carries values only.
func Export(doc *store.Document, format Format) ([]byte, error) {
	switch format {
	case YAML:
		return doc.Bytes()
	case TOML:
		values, err := doc.Map()
		if err != nil {
			return nil, err
		}
		return MarshalTOML(values)
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
}

// MarshalTOML encodes nested maps as TOML with indented sub-tables.
func MarshalTOML(values map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(values); err != nil {
		return nil, errors.Wrap(err, "marshaling toml")
	}
	return buf.Bytes(), nil
}

// YAMLToTOML converts YAML data to TOML data.
func YAMLToTOML(data []byte) ([]byte, error) {
	doc, err := store.Parse(data)
	if err != nil {
		return nil, err
	}
	return Export(doc, TOML)
}

// TOMLToYAML converts TOML data to YAML data.
func TOMLToYAML(data []byte) ([]byte, error) {
	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "unmarshaling toml")
	}
	out, err := yaml.Marshal(values)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling yaml")
	}
	return out, nil
}

// Read loads the file at path as a document, converting TOML on the fly.
// The format comes from the file extension.
func Read(path string) (*store.Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == YAML {
		return store.Load(path)
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	converted, err := TOMLToYAML(data)
	if err != nil {
		return nil, errors.Wrapf(err, "converting %s", path)
	}
	return store.Parse(converted)
}
