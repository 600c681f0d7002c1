package depgraph

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tracegen/internal/buildlog"
	"tracegen/internal/trace"
)

// OneHop returns the targets that t links against directly: dependencies
// whose kind is linkable and whose basename names an indexed target.
// Object files, static archives and anything unknown to the index (system
// libraries, paths outside the build) are dropped. Dependency order is kept.
func OneHop(t *buildlog.Target, idx *TargetIndex) []*buildlog.Target {
	var out []*buildlog.Target
	for _, dep := range t.Dependencies {
		if dt, ok := resolveDep(dep, idx); ok {
			out = append(out, dt)
		}
	}
	return out
}

// OneHopParallel is OneHop with the dependency list split across workers.
// The result equals OneHop(t, idx), order included.
func OneHopParallel(ctx context.Context, t *buildlog.Target, idx *TargetIndex, jobs int) ([]*buildlog.Target, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	deps := t.Dependencies
	slots := make([]*buildlog.Target, len(deps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, dep := range deps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if dt, ok := resolveDep(dep, idx); ok {
				slots[i] = dt
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*buildlog.Target
	for _, dt := range slots {
		if dt != nil {
			out = append(out, dt)
		}
	}
	return out, nil
}

func resolveDep(dep string, idx *TargetIndex) (*buildlog.Target, bool) {
	if !Classify(dep).Linkable() {
		return nil, false
	}
	return idx.Get(Basename(dep))
}

// Closure returns seed followed by every target transitively reachable from
// it, each exactly once, in breadth-first discovery order.
func Closure(ctx context.Context, seed []*buildlog.Target, idx *TargetIndex, jobs int) ([]*buildlog.Target, error) {
	levels, err := ClosureLevels(ctx, seed, idx, jobs)
	if err != nil {
		return nil, err
	}
	var out []*buildlog.Target
	for _, level := range levels {
		out = append(out, level...)
	}
	return out, nil
}

// ClosureLevels expands seed one frontier at a time. Level 0 is the
// deduplicated seed; level n+1 holds the targets first reached from level n.
// Targets within a level are expanded in parallel, and a level only starts
// once the previous one has finished. A target is expanded at most once, so
// cyclic graphs terminate.
func ClosureLevels(ctx context.Context, seed []*buildlog.Target, idx *TargetIndex, jobs int) ([][]*buildlog.Target, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	ctx, span := trace.Start(ctx, trace.ScopeStage, "resolve")

	visited := make(map[string]struct{}, len(seed))
	frontier := make([]*buildlog.Target, 0, len(seed))
	for _, t := range seed {
		if _, seen := visited[t.Name]; seen {
			continue
		}
		visited[t.Name] = struct{}{}
		frontier = append(frontier, t)
	}

	var levels [][]*buildlog.Target
	for len(frontier) > 0 {
		levels = append(levels, frontier)
		trace.Note(ctx, trace.ScopeTarget, "level", "", trace.Int("depth", len(levels)-1), trace.Int("targets", len(frontier)))

		hops := make([][]*buildlog.Target, len(frontier))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(jobs)
		for i, t := range frontier {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				hops[i] = OneHop(t, idx)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			span.Fail(err)
			return nil, err
		}

		var next []*buildlog.Target
		for _, hop := range hops {
			for _, t := range hop {
				if _, seen := visited[t.Name]; seen {
					continue
				}
				visited[t.Name] = struct{}{}
				next = append(next, t)
			}
		}
		frontier = next
	}

	span.Set(trace.Int("levels", len(levels)), trace.Int("targets", len(visited))).End("")
	return levels, nil
}
