package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldError reports a payload entry that is present but cannot be coerced to
// its field's kind.
type FieldError struct {
	Field string
	Kind  Kind
	Value any
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: cannot use %T %v as %s", e.Field, e.Value, e.Value, e.Kind)
}

// Instantiate builds a Value for d from a decoded payload. The merge is
// field-level: keys that are absent or null take DefaultFor, present keys are
// coerced to the field kind, and keys unknown to d are ignored.
//
// Coercion is lenient where the intent is unambiguous: floats accept any JSON
// number or numeric string, integers accept integral numbers or integer
// strings, enums accept a declared literal compared case-insensitively after
// trimming. A present value that cannot be coerced is reported as a
// *FieldError; all such errors are joined and the returned Value is nil.
func Instantiate(d *Descriptor, payload map[string]any) (Value, error) {
	if d == nil {
		return Value{}, nil
	}

	v := make(Value, len(d.fields))
	var errs []error

	for _, f := range d.fields {
		raw, present := payload[f.Name]
		if !present || raw == nil {
			v[f.Name] = DefaultFor(f)
			continue
		}

		coerced, ok := coerce(f, raw)
		if !ok {
			errs = append(errs, &FieldError{Field: f.Name, Kind: f.Kind, Value: raw})
			continue
		}
		v[f.Name] = coerced
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return v, nil
}

func coerce(f Field, raw any) (any, bool) {
	switch f.Kind {
	case KindString:
		s, ok := raw.(string)
		return s, ok
	case KindFloat:
		return toFloat(raw)
	case KindInteger:
		return toInt(raw)
	case KindMapping:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, false
		}
		return normalize(m), true
	case KindEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, false
		}
		return matchLiteral(f.Literals, s)
	default:
		return normalize(raw), true
	}
}

func toFloat(raw any) (float64, bool) {
	var f float64
	switch n := raw.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toInt(raw any) (int64, bool) {
	switch n := raw.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case float64:
		return integral(n)
	case float32:
		return integral(float64(n))
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
	if f >= 0x1p63 || f < -0x1p63 {
		return 0, false
	}
	return int64(f), true
}

func matchLiteral(literals []string, s string) (string, bool) {
	for _, lit := range literals {
		if lit == s {
			return lit, true
		}
	}
	trimmed := strings.TrimSpace(s)
	for _, lit := range literals {
		if strings.EqualFold(lit, trimmed) {
			return lit, true
		}
	}
	return "", false
}

// normalize replaces json.Number values nested in decoded data with float64,
// the representation encoding/json uses by default.
func normalize(raw any) any {
	switch v := raw.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}
