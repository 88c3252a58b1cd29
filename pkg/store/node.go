package store

import (
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/cfgsync/internal/errors"
)

// Node is a Section backed by a YAML mapping node.
type Node struct {
	mapping *yaml.Node
	path    string
}

var _ Section = (*Node)(nil)

// Path returns the absolute path of the section.
func (n *Node) Path() string {
	return n.path
}

// Contains reports whether path holds a value or a section.
func (n *Node) Contains(path string) bool {
	_, _, ok := n.entry(path)
	return ok
}

// Get returns the value at path. Mappings come back as *Node handles;
// everything else is decoded into plain Go values.
func (n *Node) Get(path string) (any, bool) {
	_, value, ok := n.entry(path)
	if !ok {
		return nil, false
	}
	value = resolve(value)
	if value.Kind == yaml.MappingNode {
		return &Node{mapping: value, path: Join(n.path, path)}, true
	}
	var out any
	if err := value.Decode(&out); err != nil {
		return nil, false
	}
	return out, true
}

// Set stores value at path. Intermediate keys that are missing or hold a
// scalar are replaced by sections. A nil value removes the key.
func (n *Node) Set(path string, value any) error {
	parts, err := SplitPath(path)
	if err != nil {
		return err
	}
	if value == nil {
		n.remove(parts)
		return nil
	}

	vn, err := encode(value)
	if err != nil {
		return errors.Wrapf(err, "setting %q", Join(n.path, path))
	}
	n.put(parts, vn)
	return nil
}

// CreateSection replaces whatever is at path with an empty section and
// returns its handle. Comments attached to the key are kept.
func (n *Node) CreateSection(path string) (Section, error) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	m := newMapping()
	n.put(parts, m)
	return &Node{mapping: m, path: Join(n.path, path)}, nil
}

// Section returns the section at path, if path holds a mapping.
func (n *Node) Section(path string) (Section, bool) {
	_, value, ok := n.entry(path)
	if !ok {
		return nil, false
	}
	value = resolve(value)
	if value.Kind != yaml.MappingNode {
		return nil, false
	}
	return &Node{mapping: value, path: Join(n.path, path)}, true
}

// Keys lists the keys of the section in document order.
func (n *Node) Keys(deep bool) []string {
	var keys []string
	collectKeys(n.mapping, "", deep, &keys)
	return keys
}

// Map decodes the section into nested maps.
func (n *Node) Map() (map[string]any, error) {
	out := map[string]any{}
	if err := resolve(n.mapping).Decode(&out); err != nil {
		return nil, errors.Wrapf(err, "decoding section %q", n.path)
	}
	return out, nil
}

// entry finds the key and value nodes at path without modifying the tree.
func (n *Node) entry(path string) (key, value *yaml.Node, ok bool) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, nil, false
	}
	m := n.mapping
	for i, part := range parts {
		m = resolve(m)
		if m == nil || m.Kind != yaml.MappingNode {
			return nil, nil, false
		}
		idx := indexOf(m, part)
		if idx < 0 {
			return nil, nil, false
		}
		if i == len(parts)-1 {
			return m.Content[idx], m.Content[idx+1], true
		}
		m = m.Content[idx+1]
	}
	return nil, nil, false
}

// parent walks to the mapping holding the last segment of parts, creating
// sections along the way.
func (n *Node) parent(parts []string) *yaml.Node {
	m := resolve(n.mapping)
	for _, part := range parts[:len(parts)-1] {
		idx := indexOf(m, part)
		if idx < 0 {
			child := newMapping()
			appendPair(m, part, child)
			m = child
			continue
		}
		child := resolve(m.Content[idx+1])
		if child.Kind != yaml.MappingNode {
			child = newMapping()
			replaceValue(m.Content[idx], m.Content[idx+1], child)
			m.Content[idx+1] = child
		}
		m = child
	}
	return m
}

// put stores vn at parts, keeping the comments of an existing key.
func (n *Node) put(parts []string, vn *yaml.Node) {
	m := n.parent(parts)
	last := parts[len(parts)-1]
	if idx := indexOf(m, last); idx >= 0 {
		replaceValue(m.Content[idx], m.Content[idx+1], vn)
		m.Content[idx+1] = vn
		return
	}
	appendPair(m, last, vn)
}

func (n *Node) remove(parts []string) {
	m := resolve(n.mapping)
	for _, part := range parts[:len(parts)-1] {
		idx := indexOf(m, part)
		if idx < 0 {
			return
		}
		m = resolve(m.Content[idx+1])
		if m.Kind != yaml.MappingNode {
			return
		}
	}
	if idx := indexOf(m, parts[len(parts)-1]); idx >= 0 {
		m.Content = append(m.Content[:idx], m.Content[idx+2:]...)
	}
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func newKey(name string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	// A populated mapping parsed from "{}" would otherwise stay in flow style
	m.Style &^= yaml.FlowStyle
	m.Content = append(m.Content, newKey(key), value)
}

// replaceValue moves the same-line comment of old onto its replacement.
func replaceValue(key, old, replacement *yaml.Node) {
	inline := lineComment(key, old)
	key.LineComment = ""
	placeLineComment(key, replacement, inline)
}

func indexOf(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func collectKeys(m *yaml.Node, prefix string, deep bool, keys *[]string) {
	m = resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := Join(prefix, m.Content[i].Value)
		*keys = append(*keys, key)
		if deep {
			collectKeys(m.Content[i+1], key, deep, keys)
		}
	}
}

// encode converts a Go value into a detached YAML node.
func encode(value any) (vn *yaml.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrUnsupportedValue, "%v", r)
		}
	}()

	switch v := value.(type) {
	case *Node:
		return deepCopy(v.mapping), nil
	case Section:
		return copySection(v)
	case *yaml.Node:
		return deepCopy(v), nil
	}

	vn = &yaml.Node{}
	if err := vn.Encode(value); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "encoding %T", value), ErrUnsupportedValue)
	}
	return vn, nil
}

// copySection rebuilds a foreign Section implementation key by key.
func copySection(s Section) (*yaml.Node, error) {
	m := newMapping()
	for _, key := range s.Keys(false) {
		value, ok := s.Get(key)
		if !ok {
			continue
		}
		vn, err := encode(value)
		if err != nil {
			return nil, err
		}
		k := newKey(key)
		k.HeadComment = formatBlock(s.Comment(key))
		placeLineComment(k, vn, formatLine(s.InlineComment(key)))
		m.Content = append(m.Content, k, vn)
	}
	return m, nil
}

func deepCopy(n *yaml.Node) *yaml.Node {
	n = resolve(n)
	if n == nil {
		return nil
	}
	c := *n
	c.Anchor = ""
	c.Content = make([]*yaml.Node, len(n.Content))
	for i, child := range n.Content {
		c.Content[i] = deepCopy(child)
	}
	return &c
}
