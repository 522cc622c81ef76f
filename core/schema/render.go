package schema

import "github.com/leofalp/llmcall/internal/jsonschema"

// JSONSchema renders d as a JSON Schema object for backends that accept a
// schema-constrained response format. Unknown kinds are rendered as an
// unconstrained property.
func (d *Descriptor) JSONSchema() *jsonschema.Schema {
	root := jsonschema.Object(d.Name())
	if d == nil {
		return root
	}

	for _, f := range d.fields {
		var prop *jsonschema.Schema
		switch f.Kind {
		case KindString:
			prop = jsonschema.String()
		case KindFloat:
			prop = jsonschema.Number()
		case KindInteger:
			prop = jsonschema.Integer()
		case KindMapping:
			prop = jsonschema.Map()
		case KindEnum:
			prop = jsonschema.Enum(f.Literals...)
		default:
			prop = &jsonschema.Schema{}
		}
		prop.Description = f.Description
		root.AddProperty(f.Name, prop)
	}
	return root
}
