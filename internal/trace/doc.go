// Package trace records what a tracegen run does: which stages ran, how
// long they took, which targets each resolver level touched and where a
// run failed.
//
// Tracing is enabled from the command line:
//
//	tracegen gen -n app -t ebpf -o app.bt --trace=- --trace-level=detail
//
// Events go to a StreamTracer (written as they happen), a RingTracer (kept
// in memory and dumped when a run fails) or both through a Tee.
//
// Levels, coarsest first: off, error (failures only), stage (command and
// stage boundaries), detail (per-target events), debug (everything).
//
// The tracer and the current span travel in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeStage, "resolve")
//	defer span.End("")
package trace
