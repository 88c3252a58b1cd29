package schema

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/pkg/fileutil"
)

// Version is the schema file format version.
const Version = 1

// File is a parsed schema file.
type File struct {
	Version  int       `koanf:"version" json:"version,omitempty" jsonschema:"enum=1,description=Schema format version"`
	Header   string    `koanf:"header" json:"header,omitempty" jsonschema:"description=Comment written at the top of new configuration files"`
	Fields   []Field   `koanf:"fields" json:"fields,omitempty" jsonschema:"description=Scalar fields bound to one key each"`
	Sections []Section `koanf:"sections" json:"sections,omitempty" jsonschema:"description=Section fields bound to whole sub-trees"`
}

// Field declares a scalar binding.
type Field struct {
	Field   string `koanf:"field" json:"field" jsonschema:"minLength=1,description=Field name used in errors and output"`
	Path    string `koanf:"path" json:"path" jsonschema:"minLength=1,description=Dotted key path"`
	Type    string `koanf:"type" json:"type,omitempty" jsonschema:"enum=string,enum=bool,enum=int,enum=int64,enum=float,enum=duration,enum=strings,enum=list,enum=any,default=any"`
	Default any    `koanf:"default" json:"default,omitempty" jsonschema:"description=Value written when the key is missing"`
	Comment string `koanf:"comment" json:"comment,omitempty"`
	Inline  bool   `koanf:"inline" json:"inline,omitempty" jsonschema:"description=Place the comment on the key's line"`
}

// Section declares a section binding.
type Section struct {
	Field   string `koanf:"field" json:"field" jsonschema:"minLength=1"`
	Name    string `koanf:"name" json:"name" jsonschema:"minLength=1,description=Dotted section path"`
	Comment string `koanf:"comment" json:"comment,omitempty"`
	Inline  bool   `koanf:"inline" json:"inline,omitempty"`
	Seeds   []Seed `koanf:"seeds" json:"seeds,omitempty" jsonschema:"description=Entries written when the section is created"`
}

// Seed declares a default entry of a section.
type Seed struct {
	Key     string   `koanf:"key" json:"key" jsonschema:"minLength=1"`
	Value   string   `koanf:"value" json:"value,omitempty" jsonschema:"description=Literal value; when blank the values list is used"`
	Values  []string `koanf:"values" json:"values,omitempty"`
	Type    string   `koanf:"type" json:"type,omitempty" jsonschema:"enum=string,enum=bool,enum=int,enum=int64,enum=float,enum=duration,enum=strings,enum=list,enum=any,default=string"`
	Comment string   `koanf:"comment" json:"comment,omitempty"`
	Inline  bool     `koanf:"inline" json:"inline,omitempty"`
}

// Load reads and checks a schema file.
func Load(path string) (*File, error) {
	if _, err := fileutil.ReadFileWithLimit(path); err != nil {
		return nil, errors.Wrapf(err, "reading schema %s", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parsing schema %s", path), errors.ErrInvalidSchema)
	}

	var f File
	if err := k.Unmarshal("", &f); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decoding schema %s", path), errors.ErrInvalidSchema)
	}
	if f.Version == 0 {
		f.Version = Version
	}
	if f.Version != Version {
		return nil, errors.Wrapf(errors.ErrInvalidSchema, "%s: unsupported schema version %d", path, f.Version)
	}
	return &f, nil
}
