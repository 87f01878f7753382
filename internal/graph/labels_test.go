package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLabel(t *testing.T) {
	t.Run("simple prefix match", func(t *testing.T) {
		key, rest, ok := ResolveLabel("knob1_cutoff", []string{"knob1", "knob2"})
		require.True(t, ok)
		assert.Equal(t, "knob1", key)
		assert.Equal(t, "cutoff", rest)
	})

	t.Run("last lexicographic match wins", func(t *testing.T) {
		// Both "ctrl" and "ctrl1" match "ctrl1_rate"; the later key in
		// sorted order overwrites the earlier match.
		key, rest, ok := ResolveLabel("ctrl1_rate", []string{"ctrl", "ctrl1"})
		require.True(t, ok)
		assert.Equal(t, "ctrl1", key)
		assert.Equal(t, "rate", rest)
	})

	t.Run("key consuming the whole label keeps the full label", func(t *testing.T) {
		key, rest, ok := ResolveLabel("knob1", []string{"knob1"})
		require.True(t, ok)
		assert.Equal(t, "knob1", key)
		assert.Equal(t, "knob1", rest)
	})

	t.Run("no match", func(t *testing.T) {
		_, _, ok := ResolveLabel("wet_dry", []string{"knob1", "enc"})
		assert.False(t, ok)
	})

	t.Run("resolution is independent of table order", func(t *testing.T) {
		orders := [][]string{
			{"ctrl", "ctrl1", "enc"},
			{"enc", "ctrl1", "ctrl"},
			{"ctrl1", "enc", "ctrl"},
		}
		for _, keys := range orders {
			key, rest, ok := ResolveLabel("ctrl1_rate", keys)
			require.True(t, ok)
			assert.Equal(t, "ctrl1", key)
			assert.Equal(t, "rate", rest)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		keys := []string{"gate1", "gate2", "knob1"}
		k1, r1, _ := ResolveLabel("gate2_trig", keys)
		k2, r2, _ := ResolveLabel("gate2_trig", keys)
		assert.Equal(t, k1, k2)
		assert.Equal(t, r1, r2)
	})
}

func TestSplitTypeSuffix(t *testing.T) {
	tests := []struct {
		rest, clean, typ string
	}{
		{"cutoff", "cutoff", "float"},
		{"steps_int", "steps", "int"},
		{"active_bool", "active", "bool"},
		{"int", "", "int"},
		{"bool", "", "bool"},
		{"integral", "integral", "float"},
	}
	for _, tc := range tests {
		clean, typ := splitTypeSuffix(tc.rest)
		assert.Equal(t, tc.clean, clean, tc.rest)
		assert.Equal(t, tc.typ, typ, tc.rest)
	}
}
