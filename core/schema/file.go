package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileDescriptor is the YAML form of a Descriptor:
//
//	name: trading_signal
//	fields:
//	  - name: signal
//	    kind: enum
//	    values: [bullish, bearish, neutral]
//	  - name: confidence
//	    kind: float
//	  - name: reasoning
//	    kind: string
//	    description: short justification
type fileDescriptor struct {
	Name   string      `yaml:"name"`
	Fields []fileField `yaml:"fields"`
}

type fileField struct {
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	Values      []string `yaml:"values,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// Parse decodes a YAML descriptor.
func Parse(data []byte) (*Descriptor, error) {
	var fd fileDescriptor
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	fields := make([]Field, 0, len(fd.Fields))
	for _, ff := range fd.Fields {
		kind, err := ParseKind(ff.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidDescriptor, ff.Name, err)
		}
		fields = append(fields, Field{
			Name:        ff.Name,
			Kind:        kind,
			Literals:    ff.Values,
			Description: ff.Description,
		})
	}

	return New(fd.Name, fields...)
}

// LoadFile reads and parses a YAML descriptor from path.
func LoadFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Parse(data)
}
