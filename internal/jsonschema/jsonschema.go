package jsonschema

import (
	"encoding/json"
	"fmt"
)

// Schema represents the structure of JSON Schema used for defining structured
// responses. Only the subset understood by model backends is modelled.
type Schema struct {
	//  Type Specifies the data type (e.g., "object", "string", "number")
	Type        string   `json:"type,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of the object, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// PropertyOrder keeps the declaration order of Properties; it is not serialized.
	PropertyOrder []string `json:"-"`
	// AdditionalProperties: Controls whether properties not defined in Properties are allowed
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Default value for the property
	Default any `json:"default,omitempty"`
	// Enum contains the list of allowed values for the property
	Enum []any `json:"enum,omitempty"`
}

// Object returns an empty object schema with the given title.
func Object(title string) *Schema {
	return &Schema{
		Type:       "object",
		Title:      title,
		Properties: map[string]*Schema{},
	}
}

// String returns a string property schema.
func String() *Schema { return &Schema{Type: "string"} }

// Number returns a number property schema.
func Number() *Schema { return &Schema{Type: "number"} }

// Integer returns an integer property schema.
func Integer() *Schema { return &Schema{Type: "integer"} }

// Map returns an object property schema accepting arbitrary keys.
func Map() *Schema { return &Schema{Type: "object", AdditionalProperties: true} }

// Enum returns a string property schema restricted to the given literals.
func Enum(values ...string) *Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &Schema{Type: "string", Enum: enum}
}

// WithDescription sets the description and returns the schema.
func (s *Schema) WithDescription(description string) *Schema {
	s.Description = description
	return s
}

// AddProperty appends a named property and marks it required. Properties keep
// their insertion order in PropertyOrder.
func (s *Schema) AddProperty(name string, property *Schema) *Schema {
	if s.Properties == nil {
		s.Properties = map[string]*Schema{}
	}
	if _, exists := s.Properties[name]; !exists {
		s.PropertyOrder = append(s.PropertyOrder, name)
		s.Required = append(s.Required, name)
	}
	s.Properties[name] = property
	return s
}

// JsonString converts the Schema to its JSON representation
// indent: optional bool parameter. If true, formats JSON with indentation. If false or omitted, returns compact JSON.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	shouldIndent := false // default: compact
	if len(indent) > 0 {
		shouldIndent = indent[0]
	}

	var jsonBytes []byte
	var err error

	if shouldIndent {
		jsonBytes, err = json.MarshalIndent(s, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(s)
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// String returns the compact JSON representation of the schema.
// Returns an error message if marshalling fails
func (s *Schema) String() string {
	jsonStr, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return jsonStr
}
