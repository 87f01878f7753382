// Package generr defines the error taxonomy shared by the generation
// pipeline. Every fatal error names the offending key, component or node so
// the caller can fix the input descriptor.
package generr

import "fmt"

// ConfigError reports a malformed or unresolvable descriptor entry, such as
// an unknown component kind or a duplicate mapping name. It is fatal: the
// whole generation run aborts.
type ConfigError struct {
	Key    string // offending component, mapping or attribute name
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %q: %s", e.Key, e.Reason)
}

// CapacityError reports that more patches were supplied than the target
// declares capacity for. It is recoverable: the patch list is truncated and
// the error is surfaced as a warning.
type CapacityError struct {
	Target   string
	Declared int
	Supplied int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("target %q supports %d patch(es), %d supplied; extra patches ignored",
		e.Target, e.Declared, e.Supplied)
}

// UnresolvedReferenceError reports a code fragment that references a field
// its owning node does not define. It is fatal at emission time.
type UnresolvedReferenceError struct {
	Node        string
	Placeholder string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("node %q: fragment references undefined field %q", e.Node, e.Placeholder)
}
