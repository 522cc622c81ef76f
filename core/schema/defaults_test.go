package schema

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

var allKinds = MustNew("all_kinds",
	String("reasoning"),
	Float("confidence"),
	Integer("quantity"),
	Mapping("metrics"),
	Enum("signal", "bullish", "bearish", "neutral"),
	Field{Name: "opaque"},
)

func TestSynthesize_AllKinds(t *testing.T) {
	got := Synthesize(allKinds)

	assert.Equal(t, Value{
		"reasoning":  ErrorSentinel,
		"confidence": 0.0,
		"quantity":   int64(0),
		"metrics":    map[string]any{},
		"signal":     "bullish",
		"opaque":     nil,
	}, got)
	assert.Len(t, got, allKinds.Len())
}

func TestSynthesize_Nil(t *testing.T) {
	assert.Equal(t, Value{}, Synthesize(nil))
}

func TestSynthesize_FreshMappings(t *testing.T) {
	first := Synthesize(allKinds)
	first.Map("metrics")["leak"] = 1

	second := Synthesize(allKinds)
	assert.Empty(t, second.Map("metrics"))
}

func TestIsDegraded(t *testing.T) {
	assert.True(t, IsDegraded(Synthesize(allKinds), allKinds))

	v := Synthesize(allKinds)
	v["reasoning"] = "solid fundamentals"
	assert.False(t, IsDegraded(v, allKinds))
	assert.False(t, IsDegraded(v, nil))
}

// genDescriptor draws an arbitrary valid descriptor covering every kind.
func genDescriptor() *rapid.Generator[*Descriptor] {
	return rapid.Custom(func(t *rapid.T) *Descriptor {
		n := rapid.IntRange(0, 8).Draw(t, "fields")
		fields := make([]Field, 0, n)
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("f%d", i)
			switch rapid.IntRange(0, 5).Draw(t, "kind") {
			case 0:
				fields = append(fields, String(name))
			case 1:
				fields = append(fields, Float(name))
			case 2:
				fields = append(fields, Integer(name))
			case 3:
				fields = append(fields, Mapping(name))
			case 4:
				lits := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 1, 4).Draw(t, "literals")
				fields = append(fields, Enum(name, lits...))
			default:
				fields = append(fields, Field{Name: name})
			}
		}
		return MustNew("generated", fields...)
	})
}

func TestProperty_SynthesizeIsCompleteKindedAndPure(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := genDescriptor().Draw(rt, "descriptor")
		before := d.Fields()

		first := Synthesize(d)
		second := Synthesize(d)

		assert.Equal(rt, first, second, "same input must give same output")
		assert.Equal(rt, before, d.Fields(), "descriptor must not be mutated")
		assert.Len(rt, first, d.Len())

		for _, f := range d.Fields() {
			got, ok := first[f.Name]
			assert.True(rt, ok, "field %s missing", f.Name)
			switch f.Kind {
			case KindString:
				assert.Equal(rt, ErrorSentinel, got)
			case KindFloat:
				assert.IsType(rt, float64(0), got)
			case KindInteger:
				assert.IsType(rt, int64(0), got)
			case KindMapping:
				assert.IsType(rt, map[string]any{}, got)
			case KindEnum:
				assert.Equal(rt, f.Literals[0], got)
			default:
				assert.Nil(rt, got)
			}
		}

		// A synthesized value always instantiates back to itself.
		again, err := Instantiate(d, first)
		assert.NoError(rt, err)
		assert.Equal(rt, first, again)
	})
}
