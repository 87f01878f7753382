package graph

import (
	"context"
	"fmt"
	"math"

	"github.com/patchwire/patchwire/internal/config"
	"github.com/patchwire/patchwire/internal/ctxlog"
	"github.com/patchwire/patchwire/internal/generr"
	"github.com/patchwire/patchwire/internal/target"
)

// builder accumulates graph state across the construction passes.
type builder struct {
	g    *Graph
	norm *target.Normalized

	rawIns  []string // raw audio input node names, by channel index
	rawOuts []string // raw audio output node names, by channel index

	params []*paramState // declaration order across all patches
	multi  bool
}

// paramState tracks a parameter node until the fill-pass has decided
// whether it has a controlling input.
type paramState struct {
	node       *Node
	patch      string // dsp handle of the owning patch
	controlled bool
}

// Build constructs the unified node graph for a normalized target and the
// supplied patches. Supplying more patches than the target's declared
// capacity truncates the list and records a CapacityError warning; an empty
// patch (no audio I/O) degrades to a control-only graph.
func Build(ctx context.Context, norm *target.Normalized, patches []*config.PatchSpec) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting graph construction.", "target", norm.Spec.Name, "patches", len(patches))

	g := New()

	if max := norm.Spec.MaxPatches; max > 0 && len(patches) > max {
		warn := &generr.CapacityError{Target: norm.Spec.Name, Declared: max, Supplied: len(patches)}
		logger.Warn("Build: patch list exceeds target capacity, truncating.",
			"declared", max, "supplied", len(patches))
		g.Warnings = append(g.Warnings, warn)
		patches = patches[:max]
	}

	b := &builder{g: g, norm: norm, multi: len(patches) > 1}

	if err := b.createHardwareNodes(); err != nil {
		return nil, err
	}
	for _, patch := range patches {
		if err := b.addPatch(patch); err != nil {
			return nil, err
		}
	}
	b.automapFill()
	b.finalizeParams()
	b.normalizeOutputFanIn()

	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating node graph: %w", err)
	}

	logger.Debug("Build: graph construction successful.", "nodes", g.Len())
	return g, nil
}

// createHardwareNodes is the first pass: one node per hardware-input table
// entry, per data slot, per hardware-output table entry, per raw audio
// channel pair, and per MIDI port when the target declares the capability.
func (b *builder) createHardwareNodes() error {
	for _, key := range b.norm.Inputs.Keys() {
		e, _ := b.norm.Inputs.Get(key)
		if err := b.g.add(&Node{
			Name: "hw.in." + key, Kind: KindHardwareInput,
			Label: key, Where: e.Where, Expr: e.Expr, Range: e.Range,
		}); err != nil {
			return err
		}
	}

	for _, key := range b.norm.Datas.Keys() {
		e, _ := b.norm.Datas.Get(key)
		if err := b.g.add(&Node{
			Name: "hw.data." + key, Kind: KindDataHandler,
			Label: key, Where: e.Where, Expr: e.Expr,
		}); err != nil {
			return err
		}
	}

	for _, key := range b.norm.Outputs.Keys() {
		e, _ := b.norm.Outputs.Get(key)
		if err := b.g.add(&Node{
			Name: "hw.out." + key, Kind: KindHardwareOutput,
			Label: key, Where: e.Where, Expr: e.Expr, Range: e.Range,
			Post: true,
		}); err != nil {
			return err
		}
	}

	for i := 0; i < b.norm.Spec.AudioChannels; i++ {
		inName := fmt.Sprintf("audio.in%d", i+1)
		if err := b.g.add(&Node{
			Name: inName, Kind: KindAudioChannel, Label: inName,
			Where: StageAudio, Var: fmt.Sprintf("in[%d]", i), Index: i,
		}); err != nil {
			return err
		}
		b.rawIns = append(b.rawIns, inName)

		outName := fmt.Sprintf("audio.out%d", i+1)
		if err := b.g.add(&Node{
			Name: outName, Kind: KindAudioChannel, Label: outName,
			Where: StageAudio, Var: fmt.Sprintf("out[%d]", i), Index: i,
			Post: true,
		}); err != nil {
			return err
		}
		b.rawOuts = append(b.rawOuts, outName)
	}

	if b.norm.Spec.MIDI {
		midiIn := &Node{
			Name: "midi.in", Kind: KindMidiPort, Label: "midi_in", Where: StageMain,
		}
		midiIn.Fragments = map[string]string{
			StageMain: "hw.midi.Listen();\nwhile(hw.midi.HasEvents()) { patch_handle_midi(hw.midi.PopEvent()); }",
		}
		if err := b.g.add(midiIn); err != nil {
			return err
		}
		if err := b.g.add(&Node{
			Name: "midi.out", Kind: KindMidiPort, Label: "midi_out", Where: StageMain,
		}); err != nil {
			return err
		}
	}
	return nil
}

// addPatch runs passes two to five for one patch: inlets, outlets with label
// rerouting, parameters with policy derivation, and data references.
func (b *builder) addPatch(patch *config.PatchSpec) error {
	handle := "dsp"
	if b.multi {
		handle = "dsp_" + sanitizeIdent(patch.Name)
	}

	call := Call{Patch: patch.Name, Handle: handle}

	if err := b.addInlets(patch, handle, &call); err != nil {
		return err
	}
	if err := b.addOutlets(patch, handle, &call); err != nil {
		return err
	}
	if err := b.addParams(patch, handle, &call); err != nil {
		return err
	}
	if err := b.addDataRefs(patch, handle); err != nil {
		return err
	}

	call.Control = len(patch.Inlets) == 0 && len(patch.Outlets) == 0
	b.g.Calls = append(b.g.Calls, call)
	return nil
}

// addInlets binds each patch inlet to a raw audio input by positional index
// modulo the available channel count, round-robin when the patch has more
// inlets than the hardware has inputs.
func (b *builder) addInlets(patch *config.PatchSpec, handle string, call *Call) error {
	for i, inlet := range patch.Inlets {
		n := &Node{
			Name:  fmt.Sprintf("dsp.%s.in%d", patch.Name, i+1),
			Kind:  KindPatchAudioIn,
			Label: inlet.Tag,
			Where: StageAudio,
			Var:   fmt.Sprintf("%s_in%d", handle, i+1),
			Index: i,
		}
		if len(b.rawIns) > 0 {
			srcName := b.rawIns[i%len(b.rawIns)]
			src, _ := b.g.Node(srcName)
			n.Src = srcName
			n.Fields = map[string]string{"var": n.Var, "source": src.Var}
			n.Fragments = map[string]string{StageAudio: "float *${var} = ${source};"}
		} else {
			n.Fields = map[string]string{"var": n.Var}
			n.Fragments = map[string]string{StageAudio: "float ${var}[kBlockSize] = {0.f};"}
		}
		if err := b.g.add(n); err != nil {
			return err
		}
		if n.Src != "" {
			src, _ := b.g.Node(n.Src)
			src.To = append(src.To, n.Name)
		}
		call.Ins = append(call.Ins, n.Var)
	}
	return nil
}

// addOutlets binds each patch outlet to a free raw audio output slot at its
// position, or synthesizes an intermediate block buffer. It then attempts
// label resolution against the output table; a match reroutes the outlet
// into the matched hardware output's fan-in.
func (b *builder) addOutlets(patch *config.PatchSpec, handle string, call *Call) error {
	for j, outlet := range patch.Outlets {
		n := &Node{
			Name:  fmt.Sprintf("dsp.%s.out%d", patch.Name, j+1),
			Kind:  KindPatchAudioOut,
			Label: outlet.Tag,
			Where: StageAudio,
			Index: j,
		}

		if j < len(b.rawOuts) {
			if slot, _ := b.g.Node(b.rawOuts[j]); slot.Src == "" {
				slot.Src = n.Name
				n.Var = slot.Var
			}
		}
		if n.Var == "" {
			n.Var = fmt.Sprintf("%s_out%d", handle, j+1)
			n.Fields = map[string]string{"var": n.Var}
			n.Fragments = map[string]string{StageAudio: "float ${var}[kBlockSize];"}
		}
		if err := b.g.add(n); err != nil {
			return err
		}
		call.Outs = append(call.Outs, n.Var)

		key, rest, ok := ResolveLabel(outlet.Tag, b.norm.Outputs.Keys())
		if !ok {
			continue
		}
		hwOut, found := b.g.Node("hw.out." + key)
		if !found {
			continue
		}
		// Rerouted: the outlet captures its block tail into a member so the
		// hardware output can consume it from any execution domain.
		n.Label = rest
		member := "m_" + handle + "_" + sanitizeIdent(outlet.Tag)
		n.Fields["member"] = member
		n.Fields["var"] = n.Var
		n.Fragments[StageAudio+".post"] = "${member} = ${var}[kBlockSize - 1];"
		n.To = append(n.To, hwOut.Name)
		hwOut.From = append(hwOut.From, n.Name)
	}
	return nil
}

// addParams creates one node per visible parameter, resolves an optional
// controlling hardware input by label, detects a type suffix on the
// remaining fragment, and derives the numeric policy.
func (b *builder) addParams(patch *config.PatchSpec, handle string, call *Call) error {
	for _, p := range patch.Params {
		if !p.Visible {
			continue
		}

		min, max, def := 0.0, 1.0, 0.0
		if p.Min != nil {
			min = *p.Min
		}
		if p.Max != nil {
			max = *p.Max
		}
		if p.Default != nil {
			def = *p.Default
		}

		label := p.Name
		typ := "float"
		var src string
		if key, rest, ok := ResolveLabel(p.Name, b.norm.Inputs.Keys()); ok {
			label, typ = splitTypeSuffix(rest)
			if label == "" {
				label = rest
			}
			src = "hw.in." + key
		}
		pol := DerivePolicy(typ, min, max, def)

		n := &Node{
			Name:  fmt.Sprintf("param.%s.%s", patch.Name, p.Name),
			Kind:  KindPatchParam,
			Label: label,
			Src:   src,
			Var:   "m_" + handle + "_" + sanitizeIdent(p.Name),
			Range: &[2]float64{pol.Min, pol.Max},
			Type:  pol.Type, Default: pol.Default, Min: pol.Min, Max: pol.Max,
			Step:  pol.Step,
			Index: p.Index,
		}
		if err := b.g.add(n); err != nil {
			return err
		}
		call.Params++

		state := &paramState{node: n, patch: handle}
		if src != "" {
			in, _ := b.g.Node(src)
			in.To = append(in.To, n.Name)
			state.controlled = true
		}
		b.params = append(b.params, state)
	}
	return nil
}

// addDataRefs creates one node per patch data reference and resolves a
// hardware data slot by the same label rule; a match attaches a generated
// accessor to the slot node.
func (b *builder) addDataRefs(patch *config.PatchSpec, handle string) error {
	for _, d := range patch.Datas {
		n := &Node{
			Name:  fmt.Sprintf("data.%s.%s", patch.Name, d.Name),
			Kind:  KindPatchDataRef,
			Label: d.Name,
			Where: StageInit,
			Var:   "m_" + handle + "_data_" + sanitizeIdent(d.Name),
		}
		n.Fields = map[string]string{
			"var":  n.Var,
			"name": d.Name,
			"size": fmt.Sprintf("%d", d.Size),
		}
		n.Fragments = map[string]string{StageInit: "${var}.Init(\"${name}\", ${size});"}
		if err := b.g.add(n); err != nil {
			return err
		}

		key, _, ok := ResolveLabel(d.Name, b.norm.Datas.Keys())
		if !ok {
			continue
		}
		slot, found := b.g.Node("hw.data." + key)
		if !found {
			continue
		}
		n.Src = slot.Name
		slot.To = append(slot.To, n.Name)
		slot.Fragments[StageInit] += fmt.Sprintf("%s.Attach(&%s);\n", slot.Expr, n.Var)
	}
	return nil
}

// automapFill is the sixth pass: every automappable hardware input whose To
// list is still empty is connected to the next parameter, in patch
// declaration order, that still lacks a controlling input.
func (b *builder) automapFill() {
	next := 0
	for _, key := range b.norm.Inputs.Keys() {
		e, _ := b.norm.Inputs.Get(key)
		if !e.Automap {
			continue
		}
		in, _ := b.g.Node("hw.in." + key)
		if len(in.To) > 0 {
			continue
		}
		for next < len(b.params) && b.params[next].controlled {
			next++
		}
		if next == len(b.params) {
			return
		}
		p := b.params[next]
		p.node.Src = in.Name
		p.controlled = true
		in.To = append(in.To, p.node.Name)
	}
}

// finalizeParams attaches fragments once the fill-pass has settled every
// parameter's controlling input. Controlled parameters read and scale their
// control source in the input's execution domain; uncontrolled parameters
// only push their default once at init.
func (b *builder) finalizeParams() {
	for _, p := range b.params {
		n := p.node
		n.Fields = map[string]string{
			"var":     n.Var,
			"label":   n.Label,
			"default": cfloat(n.Default),
			"min":     cfloat(n.Min),
			"max":     cfloat(n.Max),
			"step":    cfloat(n.Step),
			"index":   fmt.Sprintf("%d", n.Index),
			"dsp":     p.patch,
		}
		n.Fragments[StageInit] = "${var} = ${default};\n${dsp}.SetParam(${index}, ${var});"

		if !p.controlled {
			n.Where = StageAudio
			continue
		}
		in, _ := b.g.Node(n.Src)
		n.Where = in.Where
		n.Fields["expr"] = in.Expr
		n.Fragments[n.Where] = "${var} = patch_param_apply(${expr}, ${min}, ${max}, ${step});\n${dsp}.SetParam(${index}, ${var});"

		if b.norm.Spec.Display != nil {
			n.Fragments[StageParamView] = "patch_draw_param(\"${label}\", ${var});"
		}
	}
}

// normalizeOutputFanIn is the seventh pass: raw audio output slots that no
// outlet claimed echo the nearest assigned slot, cycling over the assigned
// set, or emit silence when nothing was assigned at all.
func (b *builder) normalizeOutputFanIn() {
	var assigned []string
	for _, name := range b.rawOuts {
		n, _ := b.g.Node(name)
		if n.Src != "" {
			assigned = append(assigned, n.Src)
		}
	}
	for i, name := range b.rawOuts {
		n, _ := b.g.Node(name)
		if n.Src != "" {
			continue
		}
		if len(assigned) == 0 {
			n.Fields["var"] = n.Var
			n.Fragments[StageAudio+".post"] = "memset(${var}, 0, sizeof(float) * kBlockSize);"
			continue
		}
		n.Src = assigned[i%len(assigned)]
		src, _ := b.g.Node(n.Src)
		n.Fields["var"] = n.Var
		n.Fields["source"] = src.Var
		n.Fragments[StageAudio+".post"] = "memcpy(${var}, ${source}, sizeof(float) * kBlockSize);"
	}
}

// cfloat renders a float as a C single-precision literal.
func cfloat(x float64) string {
	if x == math.Trunc(x) {
		return fmt.Sprintf("%.1ff", x)
	}
	return fmt.Sprintf("%gf", x)
}
