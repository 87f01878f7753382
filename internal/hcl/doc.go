// Package hcl implements loading of the HCL descriptor format. It is the
// only package that imports hashicorp/hcl for descriptor input; its output
// is the agnostic model in internal/config.
package hcl
