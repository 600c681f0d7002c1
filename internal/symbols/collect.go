package symbols

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tracegen/internal/buildlog"
	"tracegen/internal/depgraph"
	"tracegen/internal/trace"
)

// ErrMissingObject matches errors for an object dependency absent from the object index.
var ErrMissingObject = errors.New("missing object")

// MissingObjectError reports an object file a target links that the build
// log does not describe.
type MissingObjectError struct {
	Target string
	Object string
}

func (e *MissingObjectError) Error() string {
	return fmt.Sprintf("target %s: object %s is not described in the build log", e.Target, e.Object)
}

// Is reports whether target is ErrMissingObject.
func (e *MissingObjectError) Is(target error) bool {
	return target == ErrMissingObject
}

// TraceTarget is a target together with the symbols to probe in it.
type TraceTarget struct {
	Name    string
	Path    string
	Symbols []string
}

// Options tunes Collect.
type Options struct {
	// Jobs bounds the number of targets processed at once (<= 0 means GOMAXPROCS).
	Jobs int
	// SkipMissing skips object dependencies absent from the index instead of failing.
	SkipMissing bool
	// Done, when set, is called once per collected target, possibly from
	// several goroutines at once.
	Done func(TraceTarget)
}

// Collect resolves the defined symbols of every target. The result has one
// entry per target, in input order. Symbols follow dependency order, then
// the order inside each object. Undefined symbols are never read.
func Collect(ctx context.Context, targets []*buildlog.Target, objects *depgraph.ObjectIndex, opts Options) ([]TraceTarget, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	ctx, span := trace.Start(ctx, trace.ScopeStage, "collect")

	out := make([]TraceTarget, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			syms, err := definedSymbols(gctx, t, objects, opts.SkipMissing)
			if err != nil {
				return err
			}
			out[i] = TraceTarget{Name: t.Name, Path: t.AbsPath, Symbols: syms}
			trace.TargetNote(gctx, t.Name, "symbols", "", trace.Int("count", len(syms)))
			if opts.Done != nil {
				opts.Done(out[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.Fail(err)
		return nil, err
	}

	span.Set(trace.Int("targets", len(out)), trace.Int("symbols", Count(out))).End("")
	return out, nil
}

func definedSymbols(ctx context.Context, t *buildlog.Target, objects *depgraph.ObjectIndex, skipMissing bool) ([]string, error) {
	var syms []string
	for _, dep := range t.Dependencies {
		if depgraph.Classify(dep) != depgraph.DepObject {
			continue
		}
		obj, ok := objects.Get(dep)
		if !ok {
			if skipMissing {
				trace.TargetNote(ctx, t.Name, "skip", "missing object "+dep)
				continue
			}
			return nil, &MissingObjectError{Target: t.Name, Object: dep}
		}
		for _, s := range obj.DefinedSymbols {
			syms = append(syms, s.Name)
		}
	}
	return syms, nil
}

// Count returns the total number of symbols across targets.
func Count(targets []TraceTarget) int {
	n := 0
	for _, t := range targets {
		n += len(t.Symbols)
	}
	return n
}
