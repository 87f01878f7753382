package emit

import (
	"context"
	"fmt"
	"strings"

	"github.com/patchwire/patchwire/internal/ctxlog"
	"github.com/patchwire/patchwire/internal/generr"
	"github.com/patchwire/patchwire/internal/graph"
	"github.com/patchwire/patchwire/internal/interp"
	"github.com/patchwire/patchwire/internal/target"
)

// stages lists the generated callbacks in emission order, with the stage
// key each one concatenates fragments from.
var stages = []struct {
	Stage     string
	Signature string
	Prologue  string
}{
	{graph.StageInit, "void patch_init()", "hw.Init();"},
	{graph.StageAudio, "void patch_audio(float **in, float **out, size_t size)", "hw.ProcessAudio();"},
	{graph.StageMain, "void patch_main()", "hw.ProcessMain();"},
	{graph.StageDisplay, "void patch_display()", ""},
	{graph.StageParamView, "void patch_paramview()", ""},
}

// Emit walks the finished graph once per generation stage and concatenates,
// in node-creation order, the fragment each node contributes to that stage.
// The result is one source document: defines, the synthesized hardware
// struct, state declarations, and the five stage callbacks. Emission is a
// pure function of its inputs; identical descriptors yield byte-identical
// output.
func Emit(ctx context.Context, g *graph.Graph, norm *target.Normalized) (string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Emit: starting source emission.", "nodes", g.Len(), "stages", len(stages))

	var b strings.Builder
	b.WriteString("// Generated by patchwire. Do not edit.\n")
	b.WriteString(fmt.Sprintf("// target: %s\n\n", norm.Spec.Name))

	for _, d := range norm.Defines {
		if d.Value == "" {
			b.WriteString(fmt.Sprintf("#define %s\n", d.Name))
			continue
		}
		b.WriteString(fmt.Sprintf("#define %s %s\n", d.Name, d.Value))
	}
	if len(norm.Defines) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("static constexpr size_t kBlockSize = 48;\n\n")

	b.WriteString(norm.Struct)
	b.WriteString("\nHardware hw;\n")
	writeDeclarations(&b, g)

	for _, stage := range stages {
		if err := emitStage(&b, g, norm, stage.Stage, stage.Signature, stage.Prologue); err != nil {
			return "", err
		}
	}

	logger.Debug("Emit: source emission complete.", "bytes", b.Len())
	return b.String(), nil
}

// writeDeclarations emits the member state the fragments reference: one DSP
// runtime handle per patch, parameter members, outlet capture members and
// data references, all in node-creation order.
func writeDeclarations(b *strings.Builder, g *graph.Graph) {
	for _, call := range g.Calls {
		b.WriteString(fmt.Sprintf("PatchRuntime %s;\n", call.Handle))
	}
	for _, n := range g.Nodes() {
		switch n.Kind {
		case graph.KindPatchParam:
			ctype := "float"
			if n.Type == "int" || n.Type == "bool" {
				ctype = n.Type
			}
			b.WriteString(fmt.Sprintf("%s %s;\n", ctype, n.Var))
		case graph.KindPatchAudioOut:
			if member, ok := n.Fields["member"]; ok {
				b.WriteString(fmt.Sprintf("float %s;\n", member))
			}
		case graph.KindPatchDataRef:
			b.WriteString(fmt.Sprintf("DataRef %s;\n", n.Var))
		}
	}
	b.WriteString("\n")
}

// emitStage concatenates one stage's fragments. Within a stage, fragments
// split into a pre slot, the patch perform calls (audio only), and a post
// slot for output writes; creation order is preserved inside each slot.
func emitStage(b *strings.Builder, g *graph.Graph, norm *target.Normalized, stage, signature, prologue string) error {
	b.WriteString(signature + " {\n")
	if prologue != "" {
		b.WriteString("\t" + prologue + "\n")
	}

	var pre, post []string
	for _, n := range g.Nodes() {
		if frag, ok := n.Fragments[stage]; ok && frag != "" {
			text, err := render(n, frag)
			if err != nil {
				return err
			}
			if n.Post {
				post = append(post, text)
			} else {
				pre = append(pre, text)
			}
		}
		if frag, ok := n.Fragments[stage+".post"]; ok && frag != "" {
			text, err := render(n, frag)
			if err != nil {
				return err
			}
			post = append(post, text)
		}
		if stage == n.Where && n.Kind == graph.KindHardwareOutput && len(n.From) > 0 {
			text, err := renderOutputWrite(g, n)
			if err != nil {
				return err
			}
			post = append(post, text)
		}
	}

	writeLines(b, pre)
	if stage == graph.StageAudio {
		for _, call := range g.Calls {
			writeLines(b, []string{performCall(call)})
		}
	}
	writeLines(b, post)

	for _, code := range norm.Inserts[stage] {
		writeLines(b, []string{code})
	}

	b.WriteString("}\n\n")
	return nil
}

// render interpolates a node's fragment against its field map. A
// placeholder with no field is fatal: the descriptor referenced something
// the node does not define.
func render(n *graph.Node, frag string) (string, error) {
	for _, ph := range interp.Placeholders(frag) {
		if _, ok := n.Fields[ph]; !ok {
			return "", &generr.UnresolvedReferenceError{Node: n.Name, Placeholder: ph}
		}
	}
	return interp.Interpolate(frag, n.Fields)
}

// renderOutputWrite materializes a hardware output's write expression with
// ${src} bound to the sum of its fan-in contributors.
func renderOutputWrite(g *graph.Graph, n *graph.Node) (string, error) {
	var parts []string
	for _, name := range n.From {
		contrib, ok := g.Node(name)
		if !ok {
			return "", &generr.UnresolvedReferenceError{Node: n.Name, Placeholder: name}
		}
		if member, has := contrib.Fields["member"]; has {
			parts = append(parts, member)
		} else {
			parts = append(parts, contrib.Var)
		}
	}
	src := strings.Join(parts, " + ")
	if len(parts) > 1 {
		src = "(" + src + ")"
	}
	fields := map[string]string{"src": src}
	for _, ph := range interp.Placeholders(n.Expr) {
		if _, ok := fields[ph]; !ok {
			return "", &generr.UnresolvedReferenceError{Node: n.Name, Placeholder: ph}
		}
	}
	return interp.Interpolate(n.Expr, fields)
}

// performCall renders one patch perform invocation. Control-only patches
// still get a call so their parameter smoothing runs once per block.
func performCall(call graph.Call) string {
	args := []string{"size"}
	args = append(args, call.Ins...)
	args = append(args, call.Outs...)
	return fmt.Sprintf("%s.Perform(%s);", call.Handle, strings.Join(args, ", "))
}

func writeLines(b *strings.Builder, blocks []string) {
	for _, block := range blocks {
		for _, line := range strings.Split(block, "\n") {
			if line == "" {
				continue
			}
			b.WriteString("\t" + line + "\n")
		}
	}
}
