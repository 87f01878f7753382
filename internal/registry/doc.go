// Package registry holds the fixed catalog of hardware component kinds.
// Each kind carries its default wiring (pin roles, per-stage fragment
// templates) and the list of named signal endpoints it exposes. The catalog
// is read-only static data; normalization copies it, never mutates it.
package registry
