// Package target normalizes a hardware target descriptor: it expands
// component instances against the component registry, flattens every exposed
// mapping into the global input and output tables, resolves aliases, applies
// display defaults and synthesizes the hardware-side source struct.
package target
