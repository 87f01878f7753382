// Package config defines the format-agnostic model of the two input
// descriptors. The HCL loader translates parsed schema structs into these
// types; everything downstream of the loader depends only on this package,
// never on HCL.
package config
