package target

import (
	"context"
	"fmt"
	"sort"

	"github.com/patchwire/patchwire/internal/config"
	"github.com/patchwire/patchwire/internal/ctxlog"
	"github.com/patchwire/patchwire/internal/generr"
	"github.com/patchwire/patchwire/internal/interp"
	"github.com/patchwire/patchwire/internal/registry"
)

// Normalized is the finished, immutable result of target normalization: the
// two flattened endpoint tables, the data-slot table, the synthesized
// hardware struct source, and the pass-through defines and inserts.
type Normalized struct {
	Spec    *config.TargetSpec
	Inputs  *Table
	Outputs *Table
	Datas   *Table
	Struct  string
	Defines []config.Define
	Inserts map[string][]string // stage → verbatim code blocks
}

// instance is one component after registry defaults have been applied:
// resolved pins plus the field map its templates interpolate against.
type instance struct {
	spec   *config.ComponentSpec
	proto  *registry.Prototype
	fields map[string]string
}

// Normalize expands a target's component instances against the registry and
// flattens every mapping into the global input and output tables. An unknown
// component kind aborts immediately.
func Normalize(ctx context.Context, spec *config.TargetSpec) (*Normalized, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Normalize: starting target normalization.", "target", spec.Name)

	instances, err := expandComponents(spec)
	if err != nil {
		return nil, err
	}

	n := &Normalized{
		Spec:    spec,
		Inputs:  NewTable(),
		Outputs: NewTable(),
		Datas:   NewTable(),
		Inserts: make(map[string][]string),
	}

	for _, inst := range instances {
		if err := registerMappings(n, inst); err != nil {
			return nil, err
		}
	}
	logger.Debug("Normalize: mapping tables flattened.",
		"inputs", n.Inputs.Len(), "outputs", n.Outputs.Len())

	if err := resolveAliases(n, spec.Aliases); err != nil {
		return nil, err
	}

	applyDisplay(n, spec)
	applyCapabilities(n, spec)

	for _, ins := range spec.Inserts {
		n.Inserts[ins.Where] = append(n.Inserts[ins.Where], ins.Code)
	}
	n.Defines = append(n.Defines, spec.Defines...)

	structSrc, err := synthesizeStruct(spec, instances)
	if err != nil {
		return nil, err
	}
	n.Struct = structSrc

	logger.Debug("Normalize: complete.", "target", spec.Name)
	return n, nil
}

// expandComponents merges registry defaults into each component instance and
// sorts instances by kind name for deterministic struct field ordering.
func expandComponents(spec *config.TargetSpec) ([]*instance, error) {
	comps := make([]*config.ComponentSpec, len(spec.Components))
	copy(comps, spec.Components)
	sort.SliceStable(comps, func(i, j int) bool {
		if comps[i].Kind != comps[j].Kind {
			return comps[i].Kind < comps[j].Kind
		}
		return comps[i].Name < comps[j].Name
	})

	used := make(map[int]bool)
	for _, c := range comps {
		if c.Pin >= 0 {
			used[c.Pin] = true
		}
		for _, p := range c.Pins {
			used[p] = true
		}
	}
	nextPin := 0
	allocPin := func() int {
		for used[nextPin] {
			nextPin++
		}
		used[nextPin] = true
		return nextPin
	}

	var instances []*instance
	for _, c := range comps {
		proto, err := registry.Lookup(c.Kind)
		if err != nil {
			return nil, err
		}

		fields := map[string]string{"name": c.Name}
		// Options apply as a shallow merge: instance values pass straight
		// into the field map, nested structures are not merged.
		for k, v := range c.Options {
			fields[k] = v
		}

		if len(proto.PinRoles) == 0 {
			pin := c.Pin
			if pin < 0 {
				pin = allocPin()
			}
			fields["pin"] = fmt.Sprintf("%d", pin)
		} else {
			for _, role := range proto.PinRoles {
				pin, ok := c.Pins[role]
				if !ok {
					pin = allocPin()
				}
				fields["pin_"+role] = fmt.Sprintf("%d", pin)
			}
		}

		instances = append(instances, &instance{spec: c, proto: proto, fields: fields})
	}
	return instances, nil
}

// registerMappings interpolates each mapping's name template and registers
// the result into the input or output table. The ${src} placeholder of
// write expressions is preserved for emission time, when the summed source
// expression is known.
func registerMappings(n *Normalized, inst *instance) error {
	for _, m := range inst.proto.Mappings {
		name, err := interp.Interpolate(m.Name, inst.fields)
		if err != nil {
			return &generr.ConfigError{Key: inst.spec.Name, Reason: err.Error()}
		}

		switch {
		case m.Get != "":
			expr, err := interp.Interpolate(m.Get, inst.fields)
			if err != nil {
				return &generr.ConfigError{Key: name, Reason: err.Error()}
			}
			if err := n.Inputs.Register(&Entry{
				Name: name, Expr: expr, Range: m.Range,
				Where: m.Where, Automap: m.Automap,
			}); err != nil {
				return err
			}
		case m.Set != "":
			withSrc := cloneFields(inst.fields)
			withSrc["src"] = "${src}"
			expr, err := interp.Interpolate(m.Set, withSrc)
			if err != nil {
				return &generr.ConfigError{Key: name, Reason: err.Error()}
			}
			if err := n.Outputs.Register(&Entry{
				Name: name, Expr: expr, Range: m.Range, Where: m.Where,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveAliases copies table entries under their alias names. An alias of
// an unregistered mapping is fatal.
func resolveAliases(n *Normalized, aliases []config.Alias) error {
	for _, a := range aliases {
		if e, ok := n.Inputs.Get(a.Of); ok {
			dup := *e
			dup.Name = a.Name
			if err := n.Inputs.Register(&dup); err != nil {
				return err
			}
			continue
		}
		if e, ok := n.Outputs.Get(a.Of); ok {
			dup := *e
			dup.Name = a.Name
			if err := n.Outputs.Register(&dup); err != nil {
				return err
			}
			continue
		}
		return &generr.ConfigError{Key: a.Name, Reason: fmt.Sprintf("alias of unregistered mapping %q", a.Of)}
	}
	return nil
}

// applyDisplay merges device display defaults, sets the display flags and
// registers the screen data slot.
func applyDisplay(n *Normalized, spec *config.TargetSpec) {
	if spec.Display == nil {
		return
	}
	d := spec.Display
	if d.Driver == "" {
		d.Driver = "ssd130x"
	}
	if d.Width == 0 {
		d.Width = 128
	}
	if d.Height == 0 {
		d.Height = 64
	}
	n.Defines = append(n.Defines,
		config.Define{Name: "HAS_DISPLAY", Value: "1"},
		config.Define{Name: "DISPLAY_DRIVER", Value: d.Driver},
		config.Define{Name: "DISPLAY_WIDTH", Value: fmt.Sprintf("%d", d.Width)},
		config.Define{Name: "DISPLAY_HEIGHT", Value: fmt.Sprintf("%d", d.Height)},
	)
	// Table registration cannot fail here: data slot names are fixed.
	_ = n.Datas.Register(&Entry{Name: "screen", Expr: "hw.display", Where: "display"})
}

// applyCapabilities registers data slots implied by target capability flags.
func applyCapabilities(n *Normalized, spec *config.TargetSpec) {
	if spec.MIDI {
		n.Defines = append(n.Defines, config.Define{Name: "HAS_MIDI", Value: "1"})
		_ = n.Datas.Register(&Entry{Name: "midi", Expr: "hw.midi", Where: "main"})
	}
}

func cloneFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
