package schema

import (
	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/pkg/binding"
	"github.com/thoreinstein/cfgsync/pkg/coerce"
	"github.com/thoreinstein/cfgsync/pkg/comment"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

// Build creates the record described by f and the bindings that keep it in
// sync. Scalar fields start at their default, or the zero value of their
// type.
func Build(f *File) (*Record, *binding.Set, error) {
	if f == nil {
		return nil, nil, errors.Wrap(errors.ErrInvalidSchema, "no schema")
	}

	rec := newRecord()
	bindings := make([]binding.Binding, 0, len(f.Fields)+len(f.Sections))

	for i, fd := range f.Fields {
		kind, err := parseKind(fd.Type, coerce.Any)
		if err != nil {
			return nil, nil, fieldError(i, fd.Field, err)
		}
		if kind == coerce.Section {
			return nil, nil, fieldError(i, fd.Field, errors.New("sections are declared under sections"))
		}

		initial := zero(kind)
		if fd.Default != nil {
			v, ok := coerce.Coerce(fd.Default, kind)
			if !ok {
				return nil, nil, fieldError(i, fd.Field, errors.Newf("default %v is not a valid %s", fd.Default, kind))
			}
			initial = v
		}
		rec.declare(fd.Field, kind, initial)

		bindings = append(bindings, binding.Binding{
			Field:   fd.Field,
			Path:    fd.Path,
			Comment: declared(fd.Comment, fd.Inline),
			Value:   rec.accessor(fd.Field, kind),
		})
	}

	for i, sec := range f.Sections {
		seeds := make([]binding.Seed, 0, len(sec.Seeds))
		for _, sd := range sec.Seeds {
			kind, err := parseKind(sd.Type, coerce.String)
			if err != nil {
				return nil, nil, fieldError(len(f.Fields)+i, sec.Field, errors.Wrapf(err, "seed %q", sd.Key))
			}
			seeds = append(seeds, binding.Seed{
				Key:     sd.Key,
				Value:   sd.Value,
				Values:  sd.Values,
				Type:    kind,
				Comment: declared(sd.Comment, sd.Inline),
			})
		}
		rec.declare(sec.Field, coerce.Section, nil)

		bindings = append(bindings, binding.Binding{
			Field:   sec.Field,
			Name:    sec.Name,
			Seeds:   seeds,
			Comment: declared(sec.Comment, sec.Inline),
			Value:   rec.accessor(sec.Field, coerce.Section),
		})
	}

	set, err := binding.New(bindings...)
	if err != nil {
		return nil, nil, errors.Mark(err, errors.ErrInvalidSchema)
	}
	return rec, set, nil
}

// accessor binds one record field. Section fields only accept handles.
func (r *Record) accessor(field string, kind coerce.Kind) binding.Accessor {
	return binding.Func(kind,
		func() any { return r.values[field] },
		func(v any) error {
			if kind == coerce.Section {
				if _, ok := v.(store.Section); !ok {
					return errors.Wrapf(binding.ErrNotAssignable, "cannot assign %T to a section", v)
				}
			}
			r.values[field] = v
			return nil
		},
	)
}

func parseKind(name string, fallback coerce.Kind) (coerce.Kind, error) {
	if name == "" {
		return fallback, nil
	}
	return coerce.ParseKind(name)
}

func declared(text string, inline bool) comment.Comment {
	if inline {
		return comment.Inline(text)
	}
	return comment.Block(text)
}

func fieldError(i int, field string, err error) error {
	if field == "" {
		return errors.Mark(errors.Wrapf(err, "binding #%d", i+1), errors.ErrInvalidSchema)
	}
	return errors.Mark(errors.Wrapf(err, "field %q", field), errors.ErrInvalidSchema)
}
