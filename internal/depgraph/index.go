package depgraph

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"tracegen/internal/buildlog"
)

// minChunk keeps tiny inputs on a single goroutine.
const minChunk = 256

// TargetIndex maps target names to targets.
type TargetIndex struct {
	byName map[string]*buildlog.Target
}

// ObjectIndex maps absolute object paths to objects.
type ObjectIndex struct {
	byPath map[string]*buildlog.Object
}

// BuildTargetIndex indexes the targets of scripts by name. When a name
// repeats, the later script wins.
func BuildTargetIndex(ctx context.Context, scripts []buildlog.LinkScript, jobs int) (*TargetIndex, error) {
	m, err := buildIndex(ctx, scripts, jobs, func(s *buildlog.LinkScript) (string, *buildlog.Target) {
		return s.Target.Name, &s.Target
	})
	if err != nil {
		return nil, err
	}
	return &TargetIndex{byName: m}, nil
}

// NewTargetIndex indexes targets sequentially.
func NewTargetIndex(targets ...*buildlog.Target) *TargetIndex {
	m := make(map[string]*buildlog.Target, len(targets))
	for _, t := range targets {
		m[t.Name] = t
	}
	return &TargetIndex{byName: m}
}

// Get returns the target named name.
func (x *TargetIndex) Get(name string) (*buildlog.Target, bool) {
	if x == nil {
		return nil, false
	}
	t, ok := x.byName[name]
	return t, ok
}

// Lookup is Get with an UnknownTargetError for absent names.
func (x *TargetIndex) Lookup(name string) (*buildlog.Target, error) {
	t, ok := x.Get(name)
	if !ok {
		return nil, &UnknownTargetError{Name: name}
	}
	return t, nil
}

// Len returns the number of indexed targets.
func (x *TargetIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.byName)
}

// Names returns all target names in sorted order.
func (x *TargetIndex) Names() []string {
	if x == nil {
		return nil
	}
	names := make([]string, 0, len(x.byName))
	for name := range x.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildObjectIndex indexes objects by absolute path. When a path repeats,
// the later object wins.
func BuildObjectIndex(ctx context.Context, objects []buildlog.Object, jobs int) (*ObjectIndex, error) {
	m, err := buildIndex(ctx, objects, jobs, func(o *buildlog.Object) (string, *buildlog.Object) {
		return o.AbsPath, o
	})
	if err != nil {
		return nil, err
	}
	return &ObjectIndex{byPath: m}, nil
}

// NewObjectIndex indexes objects sequentially.
func NewObjectIndex(objects ...*buildlog.Object) *ObjectIndex {
	m := make(map[string]*buildlog.Object, len(objects))
	for _, o := range objects {
		m[o.AbsPath] = o
	}
	return &ObjectIndex{byPath: m}
}

// Get returns the object at path.
func (x *ObjectIndex) Get(path string) (*buildlog.Object, bool) {
	if x == nil {
		return nil, false
	}
	o, ok := x.byPath[path]
	return o, ok
}

// Len returns the number of indexed objects.
func (x *ObjectIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.byPath)
}

// buildIndex splits items into contiguous chunks, indexes each chunk on its
// own goroutine and merges the partial maps in chunk order, so the result
// is the same as a sequential last-wins pass.
func buildIndex[S, V any](ctx context.Context, items []S, jobs int, entry func(*S) (string, *V)) (map[string]*V, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	chunks := (len(items) + minChunk - 1) / minChunk
	chunks = max(1, min(chunks, jobs))
	size := (len(items) + chunks - 1) / chunks

	parts := make([]map[string]*V, chunks)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for c := range chunks {
		lo := min(c*size, len(items))
		hi := min(lo+size, len(items))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			part := make(map[string]*V, hi-lo)
			for i := lo; i < hi; i++ {
				k, v := entry(&items[i])
				part[k] = v
			}
			parts[c] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*V, len(items))
	for _, part := range parts {
		for k, v := range part {
			out[k] = v
		}
	}
	return out, nil
}
