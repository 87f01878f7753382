// Package schema holds the HCL-tagged structs that descriptor files are
// decoded into. These structs stay HCL-specific; the loader translates them
// into the format-agnostic model in internal/config.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Target descriptor ---

// PinsBlock carries the named pin assignments of a multi-pin component.
// Pin roles vary by kind, so the body is decoded as plain attributes.
type PinsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Component represents one `component` block: a configured hardware element.
type Component struct {
	Name    string     `hcl:"instance_name,label"`
	Kind    string     `hcl:"kind"`
	Pin     *int       `hcl:"pin,optional"`
	Pins    *PinsBlock `hcl:"pins,block"`
	Options hcl.Body   `hcl:",remain"` // kind-specific options (invert, slew, depth, ...)
}

// Alias declares an alternate name for an already registered mapping.
type Alias struct {
	Name string `hcl:"alias_name,label"`
	Of   string `hcl:"of"`
}

// Display represents the optional `display` block of a target.
type Display struct {
	Driver *string `hcl:"driver,optional"`
	Width  *int    `hcl:"width,optional"`
	Height *int    `hcl:"height,optional"`
}

// Insert is a verbatim code block injected into one generation stage.
type Insert struct {
	Where string `hcl:"where"`
	Code  string `hcl:"code"`
}

// Define declares a preprocessor-style flag passed through to the output.
type Define struct {
	Name  string `hcl:"define_name,label"`
	Value string `hcl:"value,optional"`
}

// Target represents a `target` block: the hardware descriptor.
type Target struct {
	Name          string       `hcl:"target_name,label"`
	AudioChannels *int         `hcl:"audio_channels,optional"`
	MIDI          bool         `hcl:"midi,optional"`
	MaxPatches    *int         `hcl:"max_patches,optional"`
	Components    []*Component `hcl:"component,block"`
	Aliases       []*Alias     `hcl:"alias,block"`
	Display       *Display     `hcl:"display,block"`
	Inserts       []*Insert    `hcl:"insert,block"`
	Defines       []*Define    `hcl:"define,block"`
}

// TargetFile is the top-level structure of a target descriptor file.
type TargetFile struct {
	Target *Target  `hcl:"target,block"`
	Body   hcl.Body `hcl:",remain"`
}

// --- Patch descriptor ---

// Signal is one ordered audio inlet or outlet of a patch.
type Signal struct {
	Tag  string  `hcl:"tag"`
	Type *string `hcl:"type,optional"`
}

// Param is one named, indexed patch parameter.
type Param struct {
	Name    string   `hcl:"param_name,label"`
	Index   int      `hcl:"index"`
	Default *float64 `hcl:"default,optional"`
	Min     *float64 `hcl:"min,optional"`
	Max     *float64 `hcl:"max,optional"`
	Hidden  bool     `hcl:"hidden,optional"`
}

// DataRef is a named data reference exposed by the patch (sample buffer,
// wavetable, file-backed storage hint).
type DataRef struct {
	Name string  `hcl:"data_name,label"`
	Size *int    `hcl:"size,optional"`
	File *string `hcl:"file,optional"`
}

// Patch represents a `patch` block: the DSP-patch descriptor.
type Patch struct {
	Name    string     `hcl:"patch_name,label"`
	Inlets  []*Signal  `hcl:"inlet,block"`
	Outlets []*Signal  `hcl:"outlet,block"`
	Params  []*Param   `hcl:"param,block"`
	Datas   []*DataRef `hcl:"data,block"`
}

// PatchFile is the top-level structure of a patch descriptor file.
type PatchFile struct {
	Patch *Patch   `hcl:"patch,block"`
	Body  hcl.Body `hcl:",remain"`
}
