// Package compilation models the in-memory output of a bundling run.
//
// A Compilation owns the asset map (output name to content), the error list
// reported back to the host and the set of input files the run depends on.
// Callers mutate it by reference; it is not safe for concurrent use.
package compilation
