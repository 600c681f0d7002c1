// Package dialect renders probe scripts for dynamic tracing tools.
//
// Two dialects exist: SystemTap ("stap") and bpftrace ("ebpf"). Every
// (target, symbol) pair becomes one probe block built from the dialect's
// fixed template; blocks are separated by one blank line.
package dialect
