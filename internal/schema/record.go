package schema

import (
	"time"

	"github.com/thoreinstein/cfgsync/pkg/coerce"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

// Record is a configuration target whose fields are named at runtime.
type Record struct {
	kinds  map[string]coerce.Kind
	values map[string]any
	order  []string
}

func newRecord() *Record {
	return &Record{
		kinds:  make(map[string]coerce.Kind),
		values: make(map[string]any),
	}
}

func (r *Record) declare(field string, kind coerce.Kind, initial any) {
	if _, ok := r.kinds[field]; !ok {
		r.order = append(r.order, field)
	}
	r.kinds[field] = kind
	r.values[field] = initial
}

// Fields returns the field names in declaration order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Kind returns the declared kind of field.
func (r *Record) Kind(field string) coerce.Kind {
	return r.kinds[field]
}

// Get returns the current value of field.
func (r *Record) Get(field string) (any, bool) {
	v, ok := r.values[field]
	return v, ok
}

// Section returns the section handle held by field, if any.
func (r *Record) Section(field string) (store.Section, bool) {
	s, ok := r.values[field].(store.Section)
	return s, ok && s != nil
}

// Set replaces the value of a declared field.
func (r *Record) Set(field string, value any) bool {
	if _, ok := r.kinds[field]; !ok {
		return false
	}
	r.values[field] = value
	return true
}

// zero returns the value a field of kind starts with when no default is
// declared. Any and Section fields start empty.
func zero(kind coerce.Kind) any {
	switch kind {
	case coerce.String:
		return ""
	case coerce.Bool:
		return false
	case coerce.Int:
		return 0
	case coerce.Int64:
		return int64(0)
	case coerce.Float64:
		return 0.0
	case coerce.Duration:
		return time.Duration(0)
	case coerce.StringList:
		return []string{}
	case coerce.List:
		return []any{}
	}
	return nil
}
