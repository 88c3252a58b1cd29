// Package store provides the mutable configuration tree that field bindings
// read from and write to.
//
// A tree is addressed with dot-separated paths ("server.port"). Every
// sub-tree is itself a [Section], so a section handle taken from a document
// supports the same operations with paths relative to it.
//
// # Documents
//
// [Document] is the YAML-backed implementation. It keeps the parsed
// yaml.Node tree, so block comments above keys and same-line comments after
// values survive a load/save cycle:
//
//	doc, err := store.Load("plugins/shop/config.yml")
//	if err != nil {
//	    return err
//	}
//	doc.Set("server.port", 25565)
//	doc.SetComment("server.port", "Port the shop listens on")
//	return doc.Save("plugins/shop/config.yml")
//
// # Values
//
// [Section.Get] returns YAML-native Go values: string, bool, int, float64,
// []any for sequences, and a [Section] handle for mappings. [Section.Set]
// accepts any value yaml.v3 can encode; setting nil removes the key and
// setting a Section copies its sub-tree.
package store
