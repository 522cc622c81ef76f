package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signalYAML = `
name: trading_signal
fields:
  - name: signal
    kind: enum
    values: [bullish, bearish, neutral]
  - name: confidence
    kind: float
  - name: reasoning
    kind: string
    description: short justification
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(signalYAML))
	require.NoError(t, err)

	assert.Equal(t, "trading_signal", d.Name())
	fields := d.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, Field{Name: "signal", Kind: KindEnum, Literals: []string{"bullish", "bearish", "neutral"}}, fields[0])
	assert.Equal(t, KindFloat, fields[1].Kind)
	assert.Equal(t, "short justification", fields[2].Description)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "fields: [\n"},
		{"unknown kind", "fields:\n  - name: a\n    kind: tuple\n"},
		{"enum without values", "fields:\n  - name: a\n    kind: enum\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("fields:\n  - name: a\n    kind: tuple\n"))
	assert.True(t, errors.Is(err, ErrInvalidDescriptor))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(signalYAML), 0o600))

	d, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
