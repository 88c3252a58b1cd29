package store

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/pkg/fileutil"
)

// DefaultIndent is the number of spaces used per nesting level on output.
const DefaultIndent = 2

// Document is a YAML configuration file held as a node tree.
// It is the root Section of the file. A Document is not safe for
// concurrent mutation.
type Document struct {
	*Node
	doc    *yaml.Node
	indent int
}

// New returns an empty document.
func New() *Document {
	root := newMapping()
	return &Document{
		Node:   &Node{mapping: root},
		doc:    &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}},
		indent: DefaultIndent,
	}
}

// Parse builds a document from YAML data. Empty input yields an empty
// document; a root that is not a mapping is rejected with ErrNotMapping.
func Parse(data []byte) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing YAML")
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		d := New()
		// Keep a comment-only file's comments
		d.doc.HeadComment = doc.HeadComment
		d.doc.FootComment = doc.FootComment
		return d, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		root = newMapping()
		doc.Content[0] = root
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	return &Document{
		Node:   &Node{mapping: root},
		doc:    &doc,
		indent: DefaultIndent,
	}, nil
}

// Load reads and parses the YAML file at path.
// A missing file yields an error matching os.ErrNotExist.
func Load(path string) (*Document, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return d, nil
}

// SetIndent sets the output indentation. Values below 2 are ignored.
func (d *Document) SetIndent(spaces int) {
	if spaces >= 2 {
		d.indent = spaces
	}
}

// Header returns the comment at the top of the document.
func (d *Document) Header() string {
	return parseComment(d.doc.HeadComment)
}

// SetHeader replaces the comment at the top of the document.
func (d *Document) SetHeader(text string) {
	d.doc.HeadComment = formatBlock(text)
}

// Bytes renders the document as YAML.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(d.indent)
	if err := enc.Encode(d.doc); err != nil {
		return nil, errors.Wrap(err, "encoding YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "flushing YAML encoder")
	}
	return buf.Bytes(), nil
}

// Save writes the document to path atomically, keeping the permissions of
// an existing file.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return errors.Wrapf(fileutil.AtomicWriteFile(path, data, fileutil.PermOf(path)), "saving %s", path)
}
