package hcl

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/patchwire/patchwire/internal/config"
	"github.com/patchwire/patchwire/internal/schema"
)

// translateTarget converts the HCL-specific target schema into the agnostic model.
func (l *Loader) translateTarget(t *schema.Target) (*config.TargetSpec, error) {
	spec := &config.TargetSpec{
		Name:          t.Name,
		AudioChannels: 2,
		MIDI:          t.MIDI,
		MaxPatches:    1,
	}
	if t.AudioChannels != nil {
		spec.AudioChannels = *t.AudioChannels
	}
	if t.MaxPatches != nil {
		spec.MaxPatches = *t.MaxPatches
	}

	for _, c := range t.Components {
		comp, err := l.translateComponent(c)
		if err != nil {
			return nil, err
		}
		spec.Components = append(spec.Components, comp)
	}

	for _, a := range t.Aliases {
		spec.Aliases = append(spec.Aliases, config.Alias{Name: a.Name, Of: a.Of})
	}

	if t.Display != nil {
		d := &config.DisplaySpec{}
		if t.Display.Driver != nil {
			d.Driver = *t.Display.Driver
		}
		if t.Display.Width != nil {
			d.Width = *t.Display.Width
		}
		if t.Display.Height != nil {
			d.Height = *t.Display.Height
		}
		spec.Display = d
	}

	for _, ins := range t.Inserts {
		spec.Inserts = append(spec.Inserts, config.Insert{Where: ins.Where, Code: ins.Code})
	}
	for _, def := range t.Defines {
		spec.Defines = append(spec.Defines, config.Define{Name: def.Name, Value: def.Value})
	}

	return spec, nil
}

// translateComponent converts one component block, decoding the free-form
// pins block and kind-specific option attributes.
func (l *Loader) translateComponent(c *schema.Component) (*config.ComponentSpec, error) {
	comp := &config.ComponentSpec{
		Name: c.Name,
		Kind: c.Kind,
		Pin:  -1,
	}
	if c.Pin != nil {
		comp.Pin = *c.Pin
	}

	if c.Pins != nil && c.Pins.Body != nil {
		pins, err := decodePinAttributes(c.Pins.Body)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", c.Name, err)
		}
		comp.Pins = pins
	}

	if c.Options != nil {
		opts, err := decodeOptionAttributes(c.Options)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", c.Name, err)
		}
		comp.Options = opts
	}

	return comp, nil
}

// translatePatch converts the HCL-specific patch schema into the agnostic model.
func (l *Loader) translatePatch(p *schema.Patch) *config.PatchSpec {
	spec := &config.PatchSpec{Name: p.Name}

	for _, in := range p.Inlets {
		spec.Inlets = append(spec.Inlets, translateSignal(in))
	}
	for _, out := range p.Outlets {
		spec.Outlets = append(spec.Outlets, translateSignal(out))
	}
	for _, prm := range p.Params {
		spec.Params = append(spec.Params, &config.ParamSpec{
			Name:    prm.Name,
			Index:   prm.Index,
			Visible: !prm.Hidden,
			Default: prm.Default,
			Min:     prm.Min,
			Max:     prm.Max,
		})
	}
	// Parameter indices drive automap order, so keep the slice sorted by
	// index regardless of block order in the file.
	sort.SliceStable(spec.Params, func(i, j int) bool {
		return spec.Params[i].Index < spec.Params[j].Index
	})
	for _, d := range p.Datas {
		ds := config.DataSpec{Name: d.Name}
		if d.Size != nil {
			ds.Size = *d.Size
		}
		if d.File != nil {
			ds.File = *d.File
		}
		spec.Datas = append(spec.Datas, ds)
	}
	return spec
}

func translateSignal(s *schema.Signal) config.SignalSpec {
	sig := config.SignalSpec{Tag: s.Tag, Type: "signal"}
	if s.Type != nil {
		sig.Type = *s.Type
	}
	return sig
}

// decodePinAttributes reads a pins block body as role → pin-number pairs.
func decodePinAttributes(body hcl.Body) (map[string]int, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid pins block: %w", diags)
	}
	pins := make(map[string]int, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("pin %q: %w", name, diags)
		}
		var pin int
		if err := gocty.FromCtyValue(val, &pin); err != nil {
			return nil, fmt.Errorf("pin %q is not a number: %w", name, err)
		}
		pins[name] = pin
	}
	return pins, nil
}

// decodeOptionAttributes reads kind-specific options as plain strings; the
// registry prototypes interpret them per kind.
func decodeOptionAttributes(body hcl.Body) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid options: %w", diags)
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	opts := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("option %q: %w", name, diags)
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", name, err)
		}
		opts[name] = str.AsString()
	}
	return opts, nil
}
