// Package depgraph indexes the targets and objects of a build log and
// resolves the target-to-target dependency graph.
//
// Only executables, shared libraries and other non-archive artifacts that
// name a known target are graph nodes; static archives and object files
// are link inputs, not nodes. Classify is the single place where a raw
// dependency string is turned into a DepKind.
package depgraph
