// Package graph builds the unified signal/control graph that wires a
// hardware target to one or more DSP patches. Nodes represent hardware
// endpoints, raw audio channels, MIDI ports, data slots and the patch's
// inlets, outlets, parameters and data references; edges are name
// references resolved against the single graph-owned node store.
//
// Construction runs a fixed sequence of passes: hardware and channel nodes,
// inlet binding, outlet binding with label rerouting, parameter resolution
// with numeric-policy derivation, data-reference resolution, the automap
// fill-pass, and audio-output fan-in normalization. The finished graph is
// immutable; emission only reads it.
package graph
