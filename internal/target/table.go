package target

import (
	"sort"

	"github.com/patchwire/patchwire/internal/generr"
)

// Entry is one flattened signal endpoint: a fully named read or write
// expression with its numeric range and execution domain.
type Entry struct {
	Name    string
	Expr    string      // read expression for inputs, write template for outputs
	Range   *[2]float64 // nil means non-numeric / event-like
	Where   string      // execution domain, defaulted to "audio"
	Automap bool
}

// Table is an insertion-ordered registry of entries keyed by name. Insertion
// order is the automap fill-pass order; lexicographic order drives label
// resolution.
type Table struct {
	keys    []string
	entries map[string]*Entry
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Register adds an entry, defaulting its execution domain to audio. A
// duplicate name is a fatal ConfigError: every mapping name must be unique
// within its table.
func (t *Table) Register(e *Entry) error {
	if _, exists := t.entries[e.Name]; exists {
		return &generr.ConfigError{Key: e.Name, Reason: "duplicate mapping name"}
	}
	if e.Where == "" {
		e.Where = "audio"
	}
	t.keys = append(t.keys, e.Name)
	t.entries[e.Name] = e
	return nil
}

// Get returns the entry for name, if registered.
func (t *Table) Get(name string) (*Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Keys returns the entry names in registration order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// SortedKeys returns the entry names in lexicographic order, the order the
// label resolver scans them in.
func (t *Table) SortedKeys() []string {
	out := t.Keys()
	sort.Strings(out)
	return out
}

// Len returns the number of registered entries.
func (t *Table) Len() int {
	return len(t.keys)
}
