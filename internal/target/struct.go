package target

import (
	"strings"

	"github.com/patchwire/patchwire/internal/config"
	"github.com/patchwire/patchwire/internal/generr"
	"github.com/patchwire/patchwire/internal/interp"
)

// synthesizeStruct produces the hardware-side source struct: one member per
// component instance plus the per-stage update methods collected from each
// instance's fragment templates. Instances arrive pre-sorted by kind, so the
// field order is deterministic.
func synthesizeStruct(spec *config.TargetSpec, instances []*instance) (string, error) {
	var b strings.Builder

	b.WriteString("struct Hardware {\n")
	b.WriteString("\tDaisySeed seed;\n")
	for _, inst := range instances {
		b.WriteString("\t" + inst.proto.Typename + " " + inst.spec.Name + ";\n")
	}
	if spec.Display != nil {
		b.WriteString("\tOledDisplay display;\n")
	}
	if spec.MIDI {
		b.WriteString("\tMidiHandler midi;\n")
	}
	b.WriteString("\n")

	stages := []struct {
		method   string
		fragment func(*instance) string
	}{
		{"void Init() {", func(i *instance) string { return i.proto.Init }},
		{"void ProcessAudio() {", func(i *instance) string { return i.proto.Process }},
		{"void ProcessMain() {", func(i *instance) string { return i.proto.Update }},
		{"void PostProcess() {", func(i *instance) string { return i.proto.PostProcess }},
	}
	for _, stage := range stages {
		b.WriteString("\t" + stage.method + "\n")
		for _, inst := range instances {
			tmpl := stage.fragment(inst)
			if tmpl == "" {
				continue
			}
			frag, err := interp.Interpolate(tmpl, inst.fields)
			if err != nil {
				return "", &generr.ConfigError{Key: inst.spec.Name, Reason: err.Error()}
			}
			for _, line := range strings.Split(frag, "\n") {
				b.WriteString("\t\t" + line + "\n")
			}
		}
		b.WriteString("\t}\n")
	}

	b.WriteString("};\n")
	return b.String(), nil
}
