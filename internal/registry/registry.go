package registry

import (
	"sort"

	"github.com/patchwire/patchwire/internal/generr"
)

// Mapping is one named signal endpoint a component exposes. Exactly one of
// Get and Set is non-empty: Get mappings land in the input table, Set
// mappings in the output table. Name, Get and Set are placeholder templates
// interpolated against the owning instance before registration.
type Mapping struct {
	Name    string      // name template, e.g. "${name}_press"
	Get     string      // read expression template
	Set     string      // write expression template; ${src} is the summed source
	Range   *[2]float64 // nil means non-numeric / event-like
	Where   string      // execution domain; "" defaults to audio
	Automap bool        // eligible for the fill-pass
}

// Prototype is the default instance shape of one component kind: pin roles,
// per-stage code fragment templates, and the exposed mappings.
type Prototype struct {
	Kind        string
	PinRoles    []string // named roles for multi-pin kinds; empty means single "pin"
	Typename    string   // hardware runtime type of the struct field
	Init        string   // init-stage fragment template
	Process     string   // audio-rate fragment template
	Update      string   // main-loop fragment template
	PostProcess string   // end-of-audio-block fragment template
	Mappings    []Mapping
}

// Lookup returns the prototype for the named component kind, or a
// ConfigError naming the unknown kind. The lookup is pure and stateless.
func Lookup(kind string) (*Prototype, error) {
	p, ok := catalog[kind]
	if !ok {
		return nil, &generr.ConfigError{Key: kind, Reason: "unknown component kind"}
	}
	return p, nil
}

// Kinds returns the names of all registered component kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(catalog))
	for k := range catalog {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
