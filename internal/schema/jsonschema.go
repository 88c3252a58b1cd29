package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/thoreinstein/cfgsync/internal/errors"
)

// SchemaID identifies the generated JSON Schema.
const SchemaID = "https://github.com/thoreinstein/cfgsync/schema.json"

// JSONSchema describes the schema file format.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	s := r.Reflect(&File{})
	s.ID = SchemaID
	s.Title = "cfgsync schema"
	s.Description = "Bindings between configuration fields and keys of a YAML file"
	return s
}

// JSONSchemaBytes returns JSONSchema as indented JSON.
func JSONSchemaBytes() ([]byte, error) {
	data, err := json.MarshalIndent(JSONSchema(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling JSON schema")
	}
	return append(data, '\n'), nil
}
