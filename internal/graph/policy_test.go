package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePolicy(t *testing.T) {
	t.Run("int and bool always step by one", func(t *testing.T) {
		assert.Equal(t, 1.0, DerivePolicy("int", 0, 127, 0).Step)
		assert.Equal(t, 1.0, DerivePolicy("int", 0, 3, 0).Step)
		assert.Equal(t, 1.0, DerivePolicy("bool", 0, 1, 0).Step)
	})

	t.Run("narrow integral range is a volt-per-octave control", func(t *testing.T) {
		assert.InEpsilon(t, 1.0/12.0, DerivePolicy("float", 0, 7, 0).Step, 1e-12)
		assert.InEpsilon(t, 1.0/12.0, DerivePolicy("float", 0, 5, 2).Step, 1e-12)
	})

	t.Run("wide integral range subdivides by power of two", func(t *testing.T) {
		// 127/100 ≈ 1.27, log2 ≈ 0.35, rounds to 0, so the step is 1.
		assert.Equal(t, 1.0, DerivePolicy("float", 0, 127, 0).Step)
		// 1000/100 = 10, log2 ≈ 3.32, rounds to 3, so the step is 8.
		assert.Equal(t, 8.0, DerivePolicy("float", 0, 1000, 0).Step)
		// 10/100 = 0.1, log2 ≈ -3.32, rounds to -3, so the step is 1/8.
		assert.Equal(t, 0.125, DerivePolicy("float", 0, 10, 0).Step)
	})

	t.Run("default unit range subdivides into hundredths", func(t *testing.T) {
		assert.InEpsilon(t, 0.01, DerivePolicy("float", 0, 1, 0).Step, 1e-12)
	})

	t.Run("non-integral bounds fall through to linear subdivision", func(t *testing.T) {
		assert.InEpsilon(t, 0.055, DerivePolicy("float", 0, 5.5, 0).Step, 1e-12)
		assert.InEpsilon(t, 0.05, DerivePolicy("float", 0, 5, 2.5).Step, 1e-12)
	})

	t.Run("default is clamped into the range", func(t *testing.T) {
		p := DerivePolicy("float", 0, 1, 4)
		assert.Equal(t, 1.0, p.Default)
		p = DerivePolicy("float", 0, 1, -1)
		assert.Equal(t, 0.0, p.Default)
	})

	t.Run("inverted bounds are swapped", func(t *testing.T) {
		p := DerivePolicy("float", 1, 0, 0.5)
		assert.Equal(t, 0.0, p.Min)
		assert.Equal(t, 1.0, p.Max)
	})
}
