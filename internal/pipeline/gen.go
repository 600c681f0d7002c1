package pipeline

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"tracegen/internal/buildlog"
	"tracegen/internal/depgraph"
	"tracegen/internal/dialect"
	"tracegen/internal/observ"
	"tracegen/internal/symbols"
	"tracegen/internal/trace"
)

// GenRequest configures probe script generation.
type GenRequest struct {
	InputPath   string
	Target      string
	Dialect     dialect.Kind
	OutputPath  string
	Jobs        int
	Cache       *buildlog.Cache
	SkipMissing bool
	Progress    ProgressSink
}

// GenResult describes a generated script.
type GenResult struct {
	OutputPath string
	// Targets are the probed targets: dependencies in discovery order, the
	// requested target last.
	Targets []symbols.TraceTarget
	Probes  int
	Bytes   int64
	Timer   *observ.Timer
}

// Gen loads the build log, resolves the closure of the requested target,
// collects the symbols of every target in it and writes the probe script.
// Nothing is written unless every stage succeeds.
func Gen(ctx context.Context, req *GenRequest) (GenResult, error) {
	result := GenResult{Timer: observ.NewTimer()}
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing gen request")
	}
	if req.Target == "" {
		return result, fmt.Errorf("missing target name")
	}
	if req.OutputPath == "" {
		return result, fmt.Errorf("missing output path")
	}
	if req.Dialect != dialect.Stap && req.Dialect != dialect.EBPF {
		return result, fmt.Errorf("unsupported trace type %v (supported: %v)", req.Dialect, dialect.Kinds())
	}
	timer := result.Timer

	b, err := Open(ctx, &OpenRequest{
		InputPath: req.InputPath,
		Cache:     req.Cache,
		Jobs:      req.Jobs,
		Timer:     timer,
		Progress:  req.Progress,
	})
	if err != nil {
		return result, err
	}
	root, err := b.Targets.Lookup(req.Target)
	if err != nil {
		emit(req.Progress, Event{Stage: StageResolve, Status: StatusError, Err: err})
		return result, err
	}

	objects, err := b.Objects(ctx)
	if err != nil {
		return result, err
	}

	phase := timer.Begin(string(StageResolve))
	emit(req.Progress, Event{Stage: StageResolve, Status: StatusWorking})
	levels, err := depgraph.ClosureLevels(ctx, []*buildlog.Target{root}, b.Targets, req.Jobs)
	if err != nil {
		timer.End(phase, "")
		emit(req.Progress, Event{Stage: StageResolve, Status: StatusError, Err: err})
		return result, err
	}
	ordered := probeOrder(levels)
	timer.End(phase, strconv.Itoa(len(ordered))+" targets in "+strconv.Itoa(len(levels))+" levels")
	for _, t := range ordered {
		emit(req.Progress, Event{Target: t.Name, Stage: StageResolve, Status: StatusQueued})
	}
	emit(req.Progress, Event{Stage: StageResolve, Status: StatusDone})

	phase = timer.Begin(string(StageCollect))
	emit(req.Progress, Event{Stage: StageCollect, Status: StatusWorking})
	started := time.Now()
	traced, err := symbols.Collect(ctx, ordered, objects, symbols.Options{
		Jobs:        req.Jobs,
		SkipMissing: req.SkipMissing,
		Done: func(tt symbols.TraceTarget) {
			emit(req.Progress, Event{
				Target:  tt.Name,
				Stage:   StageCollect,
				Status:  StatusDone,
				Detail:  strconv.Itoa(len(tt.Symbols)) + " symbols",
				Elapsed: time.Since(started),
			})
		},
	})
	if err != nil {
		timer.End(phase, "")
		emit(req.Progress, Event{Stage: StageCollect, Status: StatusError, Err: err})
		return result, err
	}
	result.Targets = traced
	timer.End(phase, strconv.Itoa(symbols.Count(traced))+" symbols")
	emit(req.Progress, Event{Stage: StageCollect, Status: StatusDone})

	phase = timer.Begin(string(StageEmit))
	emit(req.Progress, Event{Stage: StageEmit, Status: StatusWorking})
	_, span := trace.Start(ctx, trace.ScopeStage, "emit", trace.String("dialect", req.Dialect.String()))
	written, err := writeAtomic(req.OutputPath, func(w io.Writer) error {
		n, genErr := dialect.Generate(w, req.Dialect, traced)
		result.Probes = n
		return genErr
	})
	timer.End(phase, req.Dialect.String())
	if err != nil {
		span.Fail(err)
		emit(req.Progress, Event{Stage: StageEmit, Status: StatusError, Err: err})
		return result, err
	}
	span.Set(trace.Int("probes", result.Probes), trace.Int("bytes", int(written))).End(req.OutputPath)
	result.OutputPath = req.OutputPath
	result.Bytes = written
	emit(req.Progress, Event{Stage: StageEmit, Status: StatusDone})
	return result, nil
}

// probeOrder puts the dependencies of the root first, in discovery order,
// and the root itself last.
func probeOrder(levels [][]*buildlog.Target) []*buildlog.Target {
	var out []*buildlog.Target
	for _, level := range levels[1:] {
		out = append(out, level...)
	}
	return append(out, levels[0]...)
}
