// Package emit turns a finished node graph into one generated source
// document. It trusts the graph: beyond placeholder resolution it performs
// no semantic validation, so a dangling reference surfaces downstream.
package emit
