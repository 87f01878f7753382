package graph

import (
	"fmt"
	"strings"
)

// Kind classifies a node in the unified signal/control graph.
type Kind string

const (
	KindHardwareInput  Kind = "hardware-input"
	KindHardwareOutput Kind = "hardware-output"
	KindAudioChannel   Kind = "audio-channel"
	KindMidiPort       Kind = "midi-port"
	KindDataHandler    Kind = "data-handler"
	KindPatchAudioIn   Kind = "patch-audio-in"
	KindPatchAudioOut  Kind = "patch-audio-out"
	KindPatchParam     Kind = "patch-parameter"
	KindPatchDataRef   Kind = "patch-data-ref"
)

// Generation stages. A node's fragment for a stage is emitted into the
// matching generated callback; Where names the stage a domain-tagged
// fragment belongs to.
const (
	StageInit      = "init"
	StageAudio     = "audio"
	StageMain      = "main"
	StageDisplay   = "display"
	StageParamView = "paramview"
)

// Node is one vertex of the graph. Edges are stored as name references into
// the owning graph's node table, never as embedded sub-objects: Src names
// the single upstream producer of a consumer node, To accumulates the
// downstream consumers of a source, and From accumulates the fan-in
// contributors of a sink (summed at emission).
type Node struct {
	Name  string // stable unique key
	Kind  Kind
	Label string // human label, used for pattern resolution
	Where string // execution domain of this node's fragments

	Src  string
	To   []string
	From []string

	Range *[2]float64
	Expr  string // read expression (inputs) or write template (outputs)
	Var   string // generated internal variable name

	// Parameter policy, populated for patch-parameter nodes only.
	Type    string
	Default float64
	Min     float64
	Max     float64
	Step    float64
	Index   int

	// Post marks fragments that must run after the patch perform call
	// within their stage (output writes, member captures).
	Post bool

	Fields    map[string]string // interpolation fields for the fragments
	Fragments map[string]string // stage → fragment template
}

// Call describes one patch perform invocation composed by the builder.
type Call struct {
	Patch   string
	Handle  string   // generated DSP runtime handle name
	Ins     []string // inlet buffer variables, in declaration order
	Outs    []string // outlet buffer variables, in declaration order
	Params  int
	Control bool // no audio I/O; parameters only
}

// Graph is the single owned node store. Nodes are indexed by stable string
// keys and iterated in creation order, which is the emission order.
type Graph struct {
	order []string
	nodes map[string]*Node

	Calls    []Call
	Warnings []error
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// add inserts a node. A duplicate name is a builder defect, not an input
// error, so it fails loudly.
func (g *Graph) add(n *Node) error {
	if _, exists := g.nodes[n.Name]; exists {
		return fmt.Errorf("duplicate node name %q", n.Name)
	}
	if n.Fields == nil {
		n.Fields = make(map[string]string)
	}
	if n.Fragments == nil {
		n.Fragments = make(map[string]string)
	}
	g.order = append(g.order, n.Name)
	g.nodes[n.Name] = n
	return nil
}

// Node returns the node with the given name, if present.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns all nodes in creation order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// DetectCycles validates that the graph is acyclic along Src/To edges using
// depth-first search. A cycle is a builder defect.
func (g *Graph) DetectCycles() error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		visiting[n.Name] = true
		for _, depName := range n.To {
			dep, ok := g.nodes[depName]
			if !ok {
				continue
			}
			if visiting[dep.Name] {
				return fmt.Errorf("cycle detected involving %q", dep.Name)
			}
			if !visited[dep.Name] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		delete(visiting, n.Name)
		visited[n.Name] = true
		return nil
	}

	for _, name := range g.order {
		if !visited[name] {
			if err := visit(g.nodes[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

// sanitizeIdent turns an arbitrary label into a C identifier fragment.
func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
