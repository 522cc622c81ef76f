package schema

import (
	"encoding/json"
	"fmt"
)

// Value is a structured result keyed by field name. String and enum fields
// hold string, float fields float64, integer fields int64 and mapping fields
// map[string]any.
type Value map[string]any

// String returns the string held by field name, or "" when absent.
func (v Value) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Float returns the float held by field name, or 0 when absent.
func (v Value) Float(name string) float64 {
	switch n := v[name].(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

// Int returns the integer held by field name, or 0 when absent. Floats count
// only when integral and within int64 range.
func (v Value) Int(name string) int64 {
	switch n := v[name].(type) {
	case int64:
		return n
	case float64:
		if i, ok := integral(n); ok {
			return i
		}
	}
	return 0
}

// Map returns the mapping held by field name, or nil when absent.
func (v Value) Map(name string) map[string]any {
	m, _ := v[name].(map[string]any)
	return m
}

// Decode copies v into target, which must be a pointer to a type whose JSON
// shape matches the descriptor (typically a struct with json tags).
//
// Example:
//
//	type Signal struct {
//	    Signal     string  `json:"signal"`
//	    Confidence float64 `json:"confidence"`
//	}
//
//	var s Signal
//	err := value.Decode(&s)
func (v Value) Decode(target any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode value into %T: %w", target, err)
	}
	return nil
}
