// Package coerce converts stored configuration values and literal defaults
// into the Go types of bound fields.
//
// Conversions never fail loudly: when no conversion applies the second
// return value is false and the caller keeps whatever value it had.
package coerce

import (
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

// Kind describes the Go type a value is converted to.
type Kind int

// Supported kinds. Invalid never converts.
const (
	Invalid Kind = iota
	String
	Bool
	Int
	Int64
	Float64
	Duration
	StringList
	List
	Section
	Any
)

// ErrUnknownKind indicates a type name ParseKind does not recognize.
var ErrUnknownKind = errors.New("unknown value type")

var kindNames = map[Kind]string{
	Invalid:    "invalid",
	String:     "string",
	Bool:       "bool",
	Int:        "int",
	Int64:      "int64",
	Float64:    "float",
	Duration:   "duration",
	StringList: "strings",
	List:       "list",
	Section:    "section",
	Any:        "any",
}

// kindAliases maps accepted type names and their common aliases to kinds.
var kindAliases = map[string]Kind{
	"string":   String,
	"str":      String,
	"bool":     Bool,
	"boolean":  Bool,
	"int":      Int,
	"integer":  Int,
	"int64":    Int64,
	"long":     Int64,
	"float":    Float64,
	"float64":  Float64,
	"double":   Float64,
	"duration": Duration,
	"strings":  StringList,
	"[]string": StringList,
	"list":     List,
	"section":  Section,
	"any":      Any,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// ParseKind maps a type name (case-insensitive) to a Kind.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return Invalid, errors.Wrapf(ErrUnknownKind, "%q", name)
}

// KindOf returns the Kind matching the dynamic type of v. Types without a
// matching kind map to Invalid.
func KindOf(v any) Kind {
	switch v.(type) {
	case string:
		return String
	case bool:
		return Bool
	case int:
		return Int
	case int64:
		return Int64
	case float64:
		return Float64
	case time.Duration:
		return Duration
	case []string:
		return StringList
	case []any:
		return List
	case store.Section:
		return Section
	}
	return Invalid
}

// Coerce converts a raw stored value to kind. Nil values never convert.
// Durations stored as bare numbers are read as seconds.
func Coerce(raw any, kind Kind) (any, bool) {
	if raw == nil {
		return nil, false
	}

	var (
		out any
		err error
	)
	switch kind {
	case String:
		out, err = cast.ToStringE(raw)
	case Bool:
		out, err = cast.ToBoolE(raw)
	case Int:
		out, err = cast.ToIntE(raw)
	case Int64:
		out, err = cast.ToInt64E(raw)
	case Float64:
		out, err = cast.ToFloat64E(raw)
	case Duration:
		return toDuration(raw)
	case StringList:
		if s, ok := raw.(string); ok {
			return []string{s}, true
		}
		out, err = cast.ToStringSliceE(raw)
	case List:
		out, err = cast.ToSliceE(raw)
	case Section:
		s, ok := raw.(store.Section)
		return s, ok
	case Any:
		return raw, true
	default:
		return nil, false
	}
	if err != nil {
		return nil, false
	}
	return out, true
}

// Parse converts a literal default to kind. List kinds split the literal
// on commas and trim each item.
func Parse(literal string, kind Kind) (any, bool) {
	switch kind {
	case String, Any:
		return literal, true
	case StringList:
		return splitList(literal), true
	case List:
		items := splitList(literal)
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item
		}
		return out, true
	case Section, Invalid:
		return nil, false
	}
	return Coerce(strings.TrimSpace(literal), kind)
}

func toDuration(raw any) (any, bool) {
	switch v := raw.(type) {
	case int:
		return time.Duration(v) * time.Second, true
	case int64:
		return time.Duration(v) * time.Second, true
	case float64:
		return time.Duration(v * float64(time.Second)), true
	}
	d, err := cast.ToDurationE(raw)
	if err != nil {
		return nil, false
	}
	return d, true
}

func splitList(literal string) []string {
	if strings.TrimSpace(literal) == "" {
		return []string{}
	}
	parts := strings.Split(literal, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
