package pipeline

import (
	"context"

	"tracegen/internal/buildlog"
	"tracegen/internal/depgraph"
)

// Class is the listing classification of a linked target.
type Class string

const (
	// ClassExec marks executables.
	ClassExec Class = "EXEC"
	// ClassDynamic marks shared libraries.
	ClassDynamic Class = "DYNL"
)

// ListEntry is one row of List.
type ListEntry struct {
	Class Class  `json:"class"`
	Name  string `json:"name"`
	Path  string `json:"path"`
}

// List returns every executable and shared library in script order.
// Static archives are never listed.
func (b *Build) List() []ListEntry {
	linked := b.Collection.LinkedTargets()
	out := make([]ListEntry, 0, len(linked))
	for _, t := range linked {
		class := ClassDynamic
		if t.TargetType == buildlog.Executable {
			class = ClassExec
		}
		out = append(out, ListEntry{Class: class, Name: t.Name, Path: t.AbsPath})
	}
	return out
}

// CheckOptions tunes Check.
type CheckOptions struct {
	// Transitive reports the whole closure instead of direct dependencies.
	Transitive bool
	// Cycles looks for dependency cycles reachable from the target.
	Cycles bool
}

// CheckResult describes the dependencies of one target.
type CheckResult struct {
	Target *buildlog.Target
	// Deps are the direct (or, with Transitive, all reachable) dependency
	// targets, excluding the target itself.
	Deps []*buildlog.Target
	// Cycle is one dependency cycle reachable from Target, first name
	// repeated at the end; empty when none was found or not requested.
	Cycle []string
}

// Check resolves name and reports its dependencies. By default only direct
// dependencies are reported, which is narrower than what Gen probes.
func (b *Build) Check(ctx context.Context, name string, opts CheckOptions) (CheckResult, error) {
	var res CheckResult
	t, err := b.Targets.Lookup(name)
	if err != nil {
		return res, err
	}
	res.Target = t

	var closure []*buildlog.Target
	if opts.Transitive || opts.Cycles {
		closure, err = depgraph.Closure(ctx, []*buildlog.Target{t}, b.Targets, b.jobs)
		if err != nil {
			return res, err
		}
	}

	if opts.Transitive {
		res.Deps = closure[1:]
	} else {
		res.Deps, err = depgraph.OneHopParallel(ctx, t, b.Targets, b.jobs)
		if err != nil {
			return res, err
		}
	}

	if opts.Cycles {
		g := depgraph.BuildGraph(closure, b.Targets)
		if topo := depgraph.Toposort(g); topo.Cyclic {
			res.Cycle = g.NamesOf(topo.CyclePath(g))
		}
	}
	return res, nil
}
