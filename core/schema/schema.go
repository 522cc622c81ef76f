package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the primitive kind of a schema field.
type Kind int

const (
	// KindUnknown is the zero Kind. Synthesized and instantiated values carry
	// nil for fields of this kind unless the payload supplies something.
	KindUnknown Kind = iota
	KindString
	KindFloat
	KindInteger
	KindMapping
	KindEnum
)

// String returns the canonical lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindInteger:
		return "integer"
	case KindMapping:
		return "mapping"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name to a Kind. Common aliases are accepted
// ("str", "number", "int", "map", "dict", "object", "literal").
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str":
		return KindString, nil
	case "float", "number", "double":
		return KindFloat, nil
	case "integer", "int":
		return KindInteger, nil
	case "mapping", "map", "dict", "object":
		return KindMapping, nil
	case "enum", "literal":
		return KindEnum, nil
	default:
		return KindUnknown, fmt.Errorf("unknown field kind %q", name)
	}
}

// Field describes one named field of a Descriptor.
type Field struct {
	Name        string
	Kind        Kind
	Literals    []string // allowed values, KindEnum only, in declaration order
	Description string
}

// String declares a string field.
func String(name string) Field { return Field{Name: name, Kind: KindString} }

// Float declares a float field.
func Float(name string) Field { return Field{Name: name, Kind: KindFloat} }

// Integer declares an integer field.
func Integer(name string) Field { return Field{Name: name, Kind: KindInteger} }

// Mapping declares a field holding a string-keyed mapping.
func Mapping(name string) Field { return Field{Name: name, Kind: KindMapping} }

// Enum declares a field restricted to the given literals. The first literal
// is the field's default.
func Enum(name string, literals ...string) Field {
	return Field{Name: name, Kind: KindEnum, Literals: append([]string(nil), literals...)}
}

// Describe returns a copy of the field carrying a description, which is
// forwarded to backends in the rendered JSON Schema.
func (f Field) Describe(description string) Field {
	f.Description = description
	f.Literals = append([]string(nil), f.Literals...)
	return f
}

// Descriptor is an ordered, immutable set of named fields. The zero value is
// not usable; build descriptors with New or MustNew.
type Descriptor struct {
	name   string
	fields []Field
	index  map[string]int
}

// ErrInvalidDescriptor is wrapped by every error New returns.
var ErrInvalidDescriptor = errors.New("invalid schema descriptor")

// New validates the fields and returns a Descriptor owning private copies of
// them. Field names must be non-empty and unique; enum fields need at least
// one literal.
func New(name string, fields ...Field) (*Descriptor, error) {
	d := &Descriptor{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrInvalidDescriptor, i)
		}
		if _, dup := d.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidDescriptor, f.Name)
		}
		if f.Kind == KindEnum && len(f.Literals) == 0 {
			return nil, fmt.Errorf("%w: enum field %q declares no literals", ErrInvalidDescriptor, f.Name)
		}

		f.Literals = append([]string(nil), f.Literals...)
		d.index[f.Name] = len(d.fields)
		d.fields = append(d.fields, f)
	}

	return d, nil
}

// MustNew is like New but panics on an invalid declaration. It is meant for
// package-level schema variables.
func MustNew(name string, fields ...Field) *Descriptor {
	d, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the descriptor name.
func (d *Descriptor) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// Len returns the number of fields.
func (d *Descriptor) Len() int {
	if d == nil {
		return 0
	}
	return len(d.fields)
}

// Fields returns a copy of the fields in declaration order.
func (d *Descriptor) Fields() []Field {
	if d == nil {
		return nil
	}
	out := make([]Field, len(d.fields))
	for i, f := range d.fields {
		f.Literals = append([]string(nil), f.Literals...)
		out[i] = f
	}
	return out
}

// Field looks a field up by name.
func (d *Descriptor) Field(name string) (Field, bool) {
	if d == nil {
		return Field{}, false
	}
	i, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	f := d.fields[i]
	f.Literals = append([]string(nil), f.Literals...)
	return f, true
}
