package hcl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const targetSrc = `
target "petal" {
  audio_channels = 2
  midi           = true
  max_patches    = 2

  component "knob1" {
    kind = "analog_control"
    pin  = 15
  }

  component "enc" {
    kind = "encoder"
    pins {
      a     = 12
      b     = 11
      click = 0
    }
  }

  component "btn" {
    kind   = "switch"
    pin    = 7
    invert = true
  }

  alias "volume" { of = "knob1" }

  display {
    driver = "ssd1309"
  }

  insert {
    where = "main"
    code  = "housekeeping();"
  }

  define "ENABLE_SOFT_CLIP" { value = "1" }
}
`

const patchSrc = `
patch "reverb" {
  inlet  { tag = "in1" }
  inlet  { tag = "in2" }
  outlet { tag = "out1" }
  outlet { tag = "led1_env" }

  param "knob1_time" {
    index   = 1
    default = 0.5
  }

  param "knob2_mix" {
    index = 0
    min   = 0
    max   = 1
  }

  param "secret" {
    index  = 2
    hidden = true
  }

  data "impulse" {
    size = 48000
    file = "impulse.wav"
  }
}
`

func TestLoadTargetSource(t *testing.T) {
	l := NewLoader()
	spec, err := l.LoadTargetSource(context.Background(), "petal.hcl", []byte(targetSrc))
	require.NoError(t, err)

	assert.Equal(t, "petal", spec.Name)
	assert.Equal(t, 2, spec.AudioChannels)
	assert.True(t, spec.MIDI)
	assert.Equal(t, 2, spec.MaxPatches)
	require.Len(t, spec.Components, 3)

	t.Run("single pin component", func(t *testing.T) {
		knob := spec.Components[0]
		assert.Equal(t, "knob1", knob.Name)
		assert.Equal(t, "analog_control", knob.Kind)
		assert.Equal(t, 15, knob.Pin)
	})

	t.Run("pins block decodes role assignments", func(t *testing.T) {
		enc := spec.Components[1]
		assert.Equal(t, map[string]int{"a": 12, "b": 11, "click": 0}, enc.Pins)
	})

	t.Run("kind-specific options pass through as strings", func(t *testing.T) {
		btn := spec.Components[2]
		assert.Equal(t, "true", btn.Options["invert"])
	})

	t.Run("blocks translate", func(t *testing.T) {
		require.Len(t, spec.Aliases, 1)
		assert.Equal(t, "volume", spec.Aliases[0].Name)
		assert.Equal(t, "knob1", spec.Aliases[0].Of)

		require.NotNil(t, spec.Display)
		assert.Equal(t, "ssd1309", spec.Display.Driver)

		require.Len(t, spec.Inserts, 1)
		assert.Equal(t, "main", spec.Inserts[0].Where)

		require.Len(t, spec.Defines, 1)
		assert.Equal(t, "ENABLE_SOFT_CLIP", spec.Defines[0].Name)
	})
}

func TestLoadPatchSource(t *testing.T) {
	l := NewLoader()
	spec, err := l.LoadPatchSource(context.Background(), "reverb.hcl", []byte(patchSrc))
	require.NoError(t, err)

	assert.Equal(t, "reverb", spec.Name)
	require.Len(t, spec.Inlets, 2)
	assert.Equal(t, "in1", spec.Inlets[0].Tag)
	require.Len(t, spec.Outlets, 2)
	assert.Equal(t, "led1_env", spec.Outlets[1].Tag)

	t.Run("params are ordered by index", func(t *testing.T) {
		require.Len(t, spec.Params, 3)
		assert.Equal(t, "knob2_mix", spec.Params[0].Name)
		assert.Equal(t, "knob1_time", spec.Params[1].Name)
		assert.Equal(t, "secret", spec.Params[2].Name)
	})

	t.Run("optional numerics stay unset", func(t *testing.T) {
		time := spec.Params[1]
		require.NotNil(t, time.Default)
		assert.Equal(t, 0.5, *time.Default)
		assert.Nil(t, time.Min)
		assert.Nil(t, time.Max)
	})

	t.Run("hidden params are invisible", func(t *testing.T) {
		assert.False(t, spec.Params[2].Visible)
		assert.True(t, spec.Params[0].Visible)
	})

	t.Run("data references", func(t *testing.T) {
		require.Len(t, spec.Datas, 1)
		assert.Equal(t, "impulse", spec.Datas[0].Name)
		assert.Equal(t, 48000, spec.Datas[0].Size)
		assert.Equal(t, "impulse.wav", spec.Datas[0].File)
	})
}

func TestLoadTargetSource_Malformed(t *testing.T) {
	l := NewLoader()
	_, err := l.LoadTargetSource(context.Background(), "bad.hcl", []byte(`target "x" {`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestLoadTargetSource_MissingBlock(t *testing.T) {
	l := NewLoader()
	_, err := l.LoadTargetSource(context.Background(), "empty.hcl", []byte(``))
	require.Error(t, err)
	assert.ErrorContains(t, err, "no target block")
}
