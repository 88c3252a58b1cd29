package store

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Comment returns the block comment above path, without comment markers.
func (n *Node) Comment(path string) string {
	key, _, ok := n.entry(path)
	if !ok {
		return ""
	}
	return parseComment(key.HeadComment)
}

// InlineComment returns the same-line comment of path, without the marker.
func (n *Node) InlineComment(path string) string {
	key, value, ok := n.entry(path)
	if !ok {
		return ""
	}
	return parseComment(lineComment(key, value))
}

// SetComment replaces the block comment above path. An empty text removes
// it. Setting the same text twice leaves a single comment.
func (n *Node) SetComment(path, text string) error {
	if _, err := SplitPath(path); err != nil {
		return err
	}
	key, _, ok := n.entry(path)
	if !ok {
		return nil
	}
	key.HeadComment = formatBlock(text)
	return nil
}

// SetInlineComment replaces the same-line comment of path. Newlines in text
// are folded into spaces.
func (n *Node) SetInlineComment(path, text string) error {
	if _, err := SplitPath(path); err != nil {
		return err
	}
	key, value, ok := n.entry(path)
	if !ok {
		return nil
	}
	placeLineComment(key, value, formatLine(text))
	return nil
}

// lineComment returns the raw same-line comment of a pair. The parser
// attaches it to scalar values; for collections it sits on the key.
func lineComment(key, value *yaml.Node) string {
	if key.LineComment != "" {
		return key.LineComment
	}
	if value != nil {
		return value.LineComment
	}
	return ""
}

// placeLineComment stores a raw same-line comment where the emitter renders
// it on the key's line, clearing any other copy.
func placeLineComment(key, value *yaml.Node, raw string) {
	key.LineComment = ""
	if value == nil {
		key.LineComment = raw
		return
	}
	if value.Kind == yaml.ScalarNode {
		value.LineComment = raw
		return
	}
	value.LineComment = ""
	key.LineComment = raw
}

func formatBlock(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = "#"
			continue
		}
		lines[i] = "# " + line
	}
	return strings.Join(lines, "\n")
}

func formatLine(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if text == "" {
		return ""
	}
	return "# " + text
}

func parseComment(raw string) string {
	if raw == "" {
		return ""
	}
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		line = strings.TrimPrefix(line, "#")
		lines[i] = strings.TrimPrefix(line, " ")
	}
	return strings.Join(lines, "\n")
}
