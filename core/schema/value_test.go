package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Getters(t *testing.T) {
	v := Value{
		"s": "text",
		"f": 1.5,
		"i": int64(3),
		"m": map[string]any{"k": "v"},
	}

	assert.Equal(t, "text", v.String("s"))
	assert.Equal(t, 1.5, v.Float("f"))
	assert.Equal(t, 3.0, v.Float("i"))
	assert.Equal(t, int64(3), v.Int("i"))
	assert.Zero(t, v.Int("f"))
	assert.Equal(t, int64(4), Value{"f": 4.0}.Int("f"))
	assert.Zero(t, Value{"f": 0x1p63}.Int("f"))
	assert.Equal(t, map[string]any{"k": "v"}, v.Map("m"))

	assert.Empty(t, v.String("missing"))
	assert.Zero(t, v.Float("s"))
	assert.Nil(t, v.Map("s"))
}

func TestValue_Decode(t *testing.T) {
	type analysis struct {
		Signal     string         `json:"signal"`
		Confidence float64        `json:"confidence"`
		Quantity   int            `json:"quantity"`
		Metrics    map[string]any `json:"metrics"`
	}

	v := Value{
		"signal":     "neutral",
		"confidence": 55.0,
		"quantity":   int64(10),
		"metrics":    map[string]any{"pe": 12.0},
	}

	var got analysis
	require.NoError(t, v.Decode(&got))
	assert.Equal(t, analysis{Signal: "neutral", Confidence: 55, Quantity: 10, Metrics: map[string]any{"pe": 12.0}}, got)

	var wrong struct {
		Signal int `json:"signal"`
	}
	assert.Error(t, v.Decode(&wrong))
}
