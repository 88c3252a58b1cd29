// Package comment attaches human-readable comments to configuration keys.
//
// Comments use set-or-replace semantics: attaching the same text again is a
// no-op and attaching different text replaces the previous comment.
package comment

import (
	"github.com/thoreinstein/cfgsync/pkg/store"
)

// Commenter is the part of a store.Section that holds comments.
type Commenter interface {
	Comment(path string) string
	InlineComment(path string) string
	SetComment(path, text string) error
	SetInlineComment(path, text string) error
}

var _ Commenter = store.Section(nil)

// Comment is a declared comment for a key or section.
type Comment struct {
	// Text is the comment body without comment markers. Multi-line text is
	// allowed for block comments.
	Text string

	// Inline places the comment on the key's line instead of above it.
	Inline bool
}

// Block returns a comment rendered above its key.
func Block(text string) Comment {
	return Comment{Text: text}
}

// Inline returns a comment rendered on its key's line.
func Inline(text string) Comment {
	return Comment{Text: text, Inline: true}
}

// IsZero reports whether no comment is declared.
func (c Comment) IsZero() bool {
	return c.Text == ""
}

// Apply attaches c to path in the style it declares.
func Apply(s Commenter, path string, c Comment) error {
	if c.Inline {
		return AttachInline(s, path, c.Text)
	}
	return Attach(s, path, c.Text)
}

// Attach sets the block comment above path. Empty text is a no-op.
func Attach(s Commenter, path, text string) error {
	if text == "" || s.Comment(path) == text {
		return nil
	}
	return s.SetComment(path, text)
}

// AttachInline sets the same-line comment of path. Empty text is a no-op.
func AttachInline(s Commenter, path, text string) error {
	if text == "" || s.InlineComment(path) == text {
		return nil
	}
	return s.SetInlineComment(path, text)
}
