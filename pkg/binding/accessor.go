package binding

import (
	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/pkg/coerce"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

// Accessor reads and assigns one field of a target.
type Accessor interface {
	// Kind is the type stored values are converted to before Set.
	Kind() coerce.Kind

	// Get returns the field's current value.
	Get() (any, error)

	// Set assigns a converted value to the field.
	Set(value any) error
}

type varAccessor[T any] struct {
	ptr  *T
	kind coerce.Kind
}

// Var binds a typed field through a pointer. The kind is derived from T;
// types coerce does not know yield a field that is seeded and saved but
// never assigned on load.
func Var[T any](ptr *T) Accessor {
	var zero T
	kind := coerce.KindOf(zero)
	switch any(&zero).(type) {
	case *any:
		kind = coerce.Any
	case *store.Section:
		kind = coerce.Section
	}
	return &varAccessor[T]{ptr: ptr, kind: kind}
}

// SectionVar binds a field holding a section handle.
func SectionVar(ptr *store.Section) Accessor {
	return &varAccessor[store.Section]{ptr: ptr, kind: coerce.Section}
}

func (a *varAccessor[T]) Kind() coerce.Kind {
	return a.kind
}

func (a *varAccessor[T]) Get() (any, error) {
	if a.ptr == nil {
		return nil, ErrUnreachable
	}
	return *a.ptr, nil
}

func (a *varAccessor[T]) Set(value any) error {
	if a.ptr == nil {
		return ErrUnreachable
	}
	v, ok := value.(T)
	if !ok {
		var zero T
		return errors.Wrapf(ErrNotAssignable, "cannot assign %T to %T", value, zero)
	}
	*a.ptr = v
	return nil
}

type funcAccessor struct {
	kind coerce.Kind
	get  func() any
	set  func(any) error
}

// Func binds a field through closures. A nil getter or setter makes the
// field unreachable in the direction that needs it.
func Func(kind coerce.Kind, get func() any, set func(any) error) Accessor {
	return &funcAccessor{kind: kind, get: get, set: set}
}

func (a *funcAccessor) Kind() coerce.Kind {
	return a.kind
}

func (a *funcAccessor) Get() (any, error) {
	if a.get == nil {
		return nil, ErrUnreachable
	}
	return a.get(), nil
}

func (a *funcAccessor) Set(value any) error {
	if a.set == nil {
		return ErrUnreachable
	}
	return a.set(value)
}
