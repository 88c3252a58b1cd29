// Package schema reads binding declarations from YAML schema files, so a
// configuration can be synchronized without compiling its bindings in.
//
// A schema file lists scalar fields and sections:
//
//	version: 1
//	header: Shop configuration
//	fields:
//	  - field: Port
//	    path: server.port
//	    type: int
//	    default: 25565
//	    comment: Port the shop listens on
//	sections:
//	  - field: Limits
//	    name: limits
//	    comment: Per-world limits
//	    seeds:
//	      - key: max-users
//	        value: "100"
//	        type: int
//	        comment: per world
//	        inline: true
//
// [Build] turns a [File] into a [Record], which holds field values keyed by
// field name, and the [binding.Set] bound to it. [JSONSchema] describes the
// file format for editors.
package schema
