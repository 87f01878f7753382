package config

// TargetSpec is the unified, format-agnostic representation of a hardware
// target descriptor: which components exist, on which pins, plus the
// target-wide capability flags.
type TargetSpec struct {
	Name          string
	AudioChannels int
	MIDI          bool
	MaxPatches    int
	Components    []*ComponentSpec
	Aliases       []Alias
	Display       *DisplaySpec
	Inserts       []Insert
	Defines       []Define
}

// ComponentSpec is the format-agnostic representation of one component
// instance before registry defaults are applied.
type ComponentSpec struct {
	Name    string
	Kind    string
	Pin     int            // single-pin shorthand; -1 when unset
	Pins    map[string]int // named pin roles; nil when unset
	Options map[string]string
}

// Alias maps an alternate mapping name onto an existing one.
type Alias struct {
	Name string
	Of   string
}

// DisplaySpec carries the display block after device defaults are known.
type DisplaySpec struct {
	Driver string
	Width  int
	Height int
}

// Insert is a verbatim code block tagged with its generation stage.
type Insert struct {
	Where string
	Code  string
}

// Define is a preprocessor-style flag emitted into the generated source.
type Define struct {
	Name  string
	Value string
}

// PatchSpec is the format-agnostic representation of a DSP-patch
// descriptor. Inlets, outlets and params keep their declaration order; the
// graph builder depends on it.
type PatchSpec struct {
	Name    string
	Inlets  []SignalSpec
	Outlets []SignalSpec
	Params  []*ParamSpec
	Datas   []DataSpec
}

// SignalSpec is one ordered audio inlet or outlet.
type SignalSpec struct {
	Tag  string
	Type string
}

// ParamSpec is one named patch parameter. Min, Max and Default are nil when
// the descriptor leaves them unset; the graph builder applies the 0/1/0
// defaults.
type ParamSpec struct {
	Name    string
	Index   int
	Visible bool
	Default *float64
	Min     *float64
	Max     *float64
}

// DataSpec is one named data reference.
type DataSpec struct {
	Name string
	Size int
	File string
}
