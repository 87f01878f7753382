package target

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patchwire/patchwire/internal/config"
	"github.com/patchwire/patchwire/internal/generr"
	"github.com/patchwire/patchwire/internal/interp"
)

func spec(components ...*config.ComponentSpec) *config.TargetSpec {
	return &config.TargetSpec{
		Name:          "testbox",
		AudioChannels: 2,
		MaxPatches:    1,
		Components:    components,
	}
}

func TestNormalize_RegistryDefaults(t *testing.T) {
	n, err := Normalize(context.Background(), spec(
		&config.ComponentSpec{Name: "btn", Kind: "switch", Pin: 5},
		&config.ComponentSpec{Name: "knob1", Kind: "analog_control", Pin: 0},
		&config.ComponentSpec{Name: "led1", Kind: "led", Pin: 22},
	))
	require.NoError(t, err)

	t.Run("every mapping name is fully interpolated", func(t *testing.T) {
		for _, key := range n.Inputs.Keys() {
			assert.True(t, interp.Resolved(key), "residual template syntax in %q", key)
			e, _ := n.Inputs.Get(key)
			assert.True(t, interp.Resolved(e.Expr), "residual template syntax in %q", e.Expr)
		}
		for _, key := range n.Outputs.Keys() {
			assert.True(t, interp.Resolved(key), "residual template syntax in %q", key)
		}
	})

	t.Run("switch contributes its default mappings", func(t *testing.T) {
		e, ok := n.Inputs.Get("btn")
		require.True(t, ok)
		assert.True(t, e.Automap)
		assert.Equal(t, "audio", e.Where)
		require.NotNil(t, e.Range)
		assert.Equal(t, [2]float64{0, 1}, *e.Range)

		_, ok = n.Inputs.Get("btn_press")
		assert.True(t, ok)
		_, ok = n.Inputs.Get("btn_release")
		assert.True(t, ok)
	})

	t.Run("write mappings land in the output table", func(t *testing.T) {
		e, ok := n.Outputs.Get("led1")
		require.True(t, ok)
		assert.Equal(t, "main", e.Where)
		assert.Contains(t, e.Expr, "${src}", "write template keeps the source placeholder for emission")
		assert.Contains(t, e.Expr, "led1", "instance fields are interpolated")
	})

	t.Run("struct fields are sorted by kind", func(t *testing.T) {
		knobIdx := indexOf(t, n.Struct, "AnalogControl knob1;")
		ledIdx := indexOf(t, n.Struct, "Led led1;")
		btnIdx := indexOf(t, n.Struct, "Switch btn;")
		assert.Less(t, knobIdx, ledIdx)
		assert.Less(t, ledIdx, btnIdx)
	})

	t.Run("init fragments are interpolated into the struct", func(t *testing.T) {
		assert.Contains(t, n.Struct, "btn.Init(hw.seed.GetPin(5), hw.AudioCallbackRate());")
	})
}

func TestNormalize_UnknownKindIsFatal(t *testing.T) {
	_, err := Normalize(context.Background(), spec(
		&config.ComponentSpec{Name: "x", Kind: "thermal_probe", Pin: 1},
	))
	require.Error(t, err)
	var cfgErr *generr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "thermal_probe", cfgErr.Key)
}

func TestNormalize_Aliases(t *testing.T) {
	s := spec(&config.ComponentSpec{Name: "knob1", Kind: "analog_control", Pin: 0})
	s.Aliases = []config.Alias{{Name: "volume", Of: "knob1"}}

	n, err := Normalize(context.Background(), s)
	require.NoError(t, err)

	orig, _ := n.Inputs.Get("knob1")
	alias, ok := n.Inputs.Get("volume")
	require.True(t, ok)
	assert.Equal(t, orig.Expr, alias.Expr)
	assert.Equal(t, orig.Where, alias.Where)
}

func TestNormalize_AliasOfUnknownMapping(t *testing.T) {
	s := spec(&config.ComponentSpec{Name: "knob1", Kind: "analog_control", Pin: 0})
	s.Aliases = []config.Alias{{Name: "volume", Of: "nope"}}

	_, err := Normalize(context.Background(), s)
	require.Error(t, err)
	var cfgErr *generr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "volume", cfgErr.Key)
}

func TestNormalize_DuplicateMappingName(t *testing.T) {
	// An alias that collides with an existing mapping name violates the
	// per-table uniqueness invariant.
	s := spec(
		&config.ComponentSpec{Name: "knob1", Kind: "analog_control", Pin: 0},
		&config.ComponentSpec{Name: "knob2", Kind: "analog_control", Pin: 1},
	)
	s.Aliases = []config.Alias{{Name: "knob2", Of: "knob1"}}

	_, err := Normalize(context.Background(), s)
	require.Error(t, err)
	var cfgErr *generr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "knob2", cfgErr.Key)
}

func TestNormalize_DisplayDefaults(t *testing.T) {
	s := spec()
	s.Display = &config.DisplaySpec{}

	n, err := Normalize(context.Background(), s)
	require.NoError(t, err)

	defines := make(map[string]string)
	for _, d := range n.Defines {
		defines[d.Name] = d.Value
	}
	assert.Equal(t, "1", defines["HAS_DISPLAY"])
	assert.Equal(t, "ssd130x", defines["DISPLAY_DRIVER"])
	assert.Equal(t, "128", defines["DISPLAY_WIDTH"])
	assert.Equal(t, "64", defines["DISPLAY_HEIGHT"])

	_, ok := n.Datas.Get("screen")
	assert.True(t, ok, "display registers the screen data slot")
}

func TestNormalize_MidiCapability(t *testing.T) {
	s := spec()
	s.MIDI = true

	n, err := Normalize(context.Background(), s)
	require.NoError(t, err)

	_, ok := n.Datas.Get("midi")
	assert.True(t, ok)
	assert.Contains(t, n.Struct, "MidiHandler midi;")
}

func TestNormalize_PinSynthesis(t *testing.T) {
	// Unset pins receive deterministic assignments that skip explicitly
	// claimed pins.
	s := spec(
		&config.ComponentSpec{Name: "a", Kind: "analog_control", Pin: 0},
		&config.ComponentSpec{Name: "b", Kind: "analog_control", Pin: -1},
		&config.ComponentSpec{Name: "c", Kind: "analog_control", Pin: -1},
	)

	n1, err := Normalize(context.Background(), s)
	require.NoError(t, err)
	n2, err := Normalize(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, n1.Struct, n2.Struct, "pin synthesis must be deterministic")
	assert.Contains(t, n1.Struct, "b.InitBipolarCv(hw.seed.adc.GetPtr(1)")
	assert.Contains(t, n1.Struct, "c.InitBipolarCv(hw.seed.adc.GetPtr(2)")
}

func TestNormalize_MultiPinRoles(t *testing.T) {
	s := spec(&config.ComponentSpec{
		Name: "enc", Kind: "encoder", Pin: -1,
		Pins: map[string]int{"a": 12, "b": 11, "click": 10},
	})

	n, err := Normalize(context.Background(), s)
	require.NoError(t, err)
	assert.Contains(t, n.Struct, "enc.Init(hw.seed.GetPin(12), hw.seed.GetPin(11), hw.seed.GetPin(10)")
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "expected %q in struct source", needle)
	return idx
}
