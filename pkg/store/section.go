package store

import (
	"strings"

	"github.com/thoreinstein/cfgsync/internal/errors"
)

// Separator splits path segments.
const Separator = "."

// Sentinel errors for tree operations.
var (
	// ErrInvalidPath indicates an empty path or a path with an empty segment.
	ErrInvalidPath = errors.New("invalid path")

	// ErrUnsupportedValue indicates a value that cannot be represented in the tree.
	ErrUnsupportedValue = errors.New("unsupported value")

	// ErrNotMapping indicates a document whose root is not a mapping.
	ErrNotMapping = errors.New("document root is not a mapping")
)

// Section is a mutable key/value tree rooted at Path. All path arguments are
// relative to the section.
type Section interface {
	// Path returns the absolute path of the section; the root is "".
	Path() string

	// Contains reports whether path holds a value or a section.
	Contains(path string) bool

	// Get returns the value at path. Mappings are returned as Section handles.
	Get(path string) (any, bool)

	// Set stores value at path, creating intermediate sections. A nil value
	// removes the key.
	Set(path string, value any) error

	// CreateSection replaces whatever is at path with an empty section.
	CreateSection(path string) (Section, error)

	// Section returns the section at path, if path holds a mapping.
	Section(path string) (Section, bool)

	// Keys lists the keys of the section in document order. With deep set,
	// nested keys follow their parent as "parent.child".
	Keys(deep bool) []string

	// Comment returns the block comment above path.
	Comment(path string) string

	// InlineComment returns the same-line comment of path.
	InlineComment(path string) string

	// SetComment replaces the block comment above path. Missing keys are ignored.
	SetComment(path, text string) error

	// SetInlineComment replaces the same-line comment of path. Missing keys are ignored.
	SetInlineComment(path, text string) error
}

// Join joins path segments, skipping empty ones.
func Join(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, Separator)
}

// SplitPath splits a path into its segments.
// It returns ErrInvalidPath for an empty path or an empty segment.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, errors.Wrap(ErrInvalidPath, "empty path")
	}
	parts := strings.Split(path, Separator)
	for _, p := range parts {
		if p == "" {
			return nil, errors.Wrapf(ErrInvalidPath, "empty segment in %q", path)
		}
	}
	return parts, nil
}
