package schema

// ErrorSentinel is the value synthesized for string fields. Its presence in a
// returned value signals that the model output could not be obtained.
const ErrorSentinel = "Error in analysis, using default"

// DefaultFor returns the placeholder value for a single field:
// the error sentinel for strings, zero for numbers, an empty mapping, the
// first declared literal for enums, and nil for unknown kinds.
func DefaultFor(f Field) any {
	switch f.Kind {
	case KindString:
		return ErrorSentinel
	case KindFloat:
		return 0.0
	case KindInteger:
		return int64(0)
	case KindMapping:
		return map[string]any{}
	case KindEnum:
		if len(f.Literals) == 0 {
			return nil
		}
		return f.Literals[0]
	default:
		return nil
	}
}

// Synthesize returns a structurally valid placeholder for d. It never fails
// and has no side effects; each call returns a fresh Value.
func Synthesize(d *Descriptor) Value {
	if d == nil {
		return Value{}
	}
	v := make(Value, len(d.fields))
	for _, f := range d.fields {
		v[f.Name] = DefaultFor(f)
	}
	return v
}

// IsDegraded reports whether any string field of v still carries
// ErrorSentinel, i.e. whether v is (at least partly) a fallback.
func IsDegraded(v Value, d *Descriptor) bool {
	if d == nil {
		return false
	}
	for _, f := range d.fields {
		if f.Kind != KindString {
			continue
		}
		if s, ok := v[f.Name].(string); ok && s == ErrorSentinel {
			return true
		}
	}
	return false
}
