package binding

import (
	"strings"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/pkg/coerce"
	"github.com/thoreinstein/cfgsync/pkg/comment"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

// Seed is a default entry installed into a section when the section is
// created.
type Seed struct {
	// Key is the path of the entry, relative to the section.
	Key string

	// Value is the literal default. When it is blank, Values is installed
	// as a list instead.
	Value string

	// Values is the literal list default.
	Values []string

	// Type is the kind Value is converted to.
	Type coerce.Kind

	// Comment is attached to the entry after it is written.
	Comment comment.Comment
}

// Default declares a seed with a literal scalar value.
func Default(key, value string, kind coerce.Kind) Seed {
	return Seed{Key: key, Value: value, Type: kind}
}

// DefaultList declares a seed with a literal list value.
func DefaultList(key string, values ...string) Seed {
	return Seed{Key: key, Values: values, Type: coerce.StringList}
}

// Commented returns a copy of s carrying c.
func (s Seed) Commented(c comment.Comment) Seed {
	s.Comment = c
	return s
}

// isList reports whether the seed installs its literal list.
func (s Seed) isList() bool {
	return strings.TrimSpace(s.Value) == ""
}

// value returns the converted default.
func (s Seed) value() (any, bool) {
	if s.isList() {
		values := make([]string, len(s.Values))
		copy(values, s.Values)
		return values, true
	}
	return coerce.Parse(s.Value, s.Type)
}

// Binding declares how one field maps onto the tree. Exactly one of Path
// (scalar binding) or Name (section binding) is set.
type Binding struct {
	// Field identifies the field in errors and logs.
	Field string

	// Path is the key a scalar field is bound to.
	Path string

	// Name is the section a section field is bound to.
	Name string

	// Seeds populate a section on creation, in order.
	Seeds []Seed

	// Comment is attached to Path or Name.
	Comment comment.Comment

	// Value reads and assigns the field.
	Value Accessor
}

// Option configures a Binding.
type Option func(*Binding)

// WithComment attaches a block comment above the bound key.
func WithComment(text string) Option {
	return func(b *Binding) {
		b.Comment = comment.Block(text)
	}
}

// WithInlineComment attaches a comment on the bound key's line.
func WithInlineComment(text string) Option {
	return func(b *Binding) {
		b.Comment = comment.Inline(text)
	}
}

// WithSeeds appends seed entries to a section binding.
func WithSeeds(seeds ...Seed) Option {
	return func(b *Binding) {
		b.Seeds = append(b.Seeds, seeds...)
	}
}

// Scalar binds field to the key at path.
func Scalar(field, path string, value Accessor, opts ...Option) Binding {
	b := Binding{Field: field, Path: path, Value: value}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Section binds field to the section called name.
func Section(field, name string, value Accessor, opts ...Option) Binding {
	b := Binding{Field: field, Name: name, Value: value}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// IsSection reports whether b is a section binding.
func (b Binding) IsSection() bool {
	return b.Name != ""
}

// Target returns the path or section name b is bound to.
func (b Binding) Target() string {
	if b.IsSection() {
		return b.Name
	}
	return b.Path
}

// Set is a validated, ordered list of bindings for one target.
type Set struct {
	bindings []Binding
}

// New validates bindings and returns them as a Set, keeping their order.
func New(bindings ...Binding) (*Set, error) {
	seen := make(map[string]bool, len(bindings))
	for i, b := range bindings {
		if err := validate(b); err != nil {
			if b.Field == "" {
				return nil, errors.Wrapf(err, "binding #%d", i+1)
			}
			return nil, errors.Wrapf(err, "field %q", b.Field)
		}
		if seen[b.Field] {
			return nil, errors.Wrapf(ErrConflictingBinding, "field %q is bound more than once", b.Field)
		}
		seen[b.Field] = true
	}

	out := make([]Binding, len(bindings))
	copy(out, bindings)
	return &Set{bindings: out}, nil
}

// Bindings returns a copy of the declared bindings in order.
func (s *Set) Bindings() []Binding {
	out := make([]Binding, len(s.bindings))
	copy(out, s.bindings)
	return out
}

// Len returns the number of bindings.
func (s *Set) Len() int {
	return len(s.bindings)
}

func validate(b Binding) error {
	if b.Field == "" {
		return errors.Wrap(ErrInvalidBinding, "missing field name")
	}
	if b.Path != "" && b.Name != "" {
		return errors.Wrap(ErrConflictingBinding, "bound as both scalar and section")
	}
	if b.Path == "" && b.Name == "" {
		return errors.Wrap(ErrInvalidBinding, "missing path or section name")
	}
	if _, err := store.SplitPath(b.Target()); err != nil {
		return errors.Mark(err, ErrInvalidBinding)
	}
	if b.Value == nil {
		return errors.Wrap(ErrInvalidBinding, "missing accessor")
	}

	if !b.IsSection() {
		if len(b.Seeds) > 0 {
			return errors.Wrap(ErrInvalidBinding, "scalar bindings cannot declare seeds")
		}
		return nil
	}

	if b.Value.Kind() != coerce.Section {
		return errors.Wrapf(ErrInvalidBinding, "section field has kind %s", b.Value.Kind())
	}
	for _, seed := range b.Seeds {
		if _, err := store.SplitPath(seed.Key); err != nil {
			return errors.Mark(errors.Wrap(err, "seed"), ErrInvalidBinding)
		}
		if seed.isList() {
			continue
		}
		if _, ok := seed.value(); !ok {
			return errors.Wrapf(ErrInvalidBinding, "seed %q: %q is not a valid %s", seed.Key, seed.Value, seed.Type)
		}
	}
	return nil
}
