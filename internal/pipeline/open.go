package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"tracegen/internal/buildlog"
	"tracegen/internal/depgraph"
	"tracegen/internal/observ"
	"tracegen/internal/trace"
)

// OpenRequest configures loading a build log.
type OpenRequest struct {
	InputPath string
	Cache     *buildlog.Cache
	Jobs      int
	Timer     *observ.Timer
	Progress  ProgressSink
}

// Build is a loaded build log with its target index. The object index is
// built on first use.
type Build struct {
	Collection *buildlog.Collection
	Targets    *depgraph.TargetIndex

	jobs       int
	objectsErr error
	objects    *depgraph.ObjectIndex
	objectsMu  sync.Mutex
}

// Open loads the build log and indexes its targets.
func Open(ctx context.Context, req *OpenRequest) (*Build, error) {
	if req == nil {
		return nil, fmt.Errorf("missing open request")
	}
	path := req.InputPath
	if path == "" {
		path = buildlog.DefaultPath
	}

	phase := req.Timer.Begin(string(StageLoad))
	emit(req.Progress, Event{Stage: StageLoad, Status: StatusWorking, Detail: path})
	col, err := buildlog.Load(ctx, path, buildlog.LoadOptions{Cache: req.Cache})
	req.Timer.End(phase, path)
	if err != nil {
		emit(req.Progress, Event{Stage: StageLoad, Status: StatusError, Err: err})
		return nil, err
	}
	emit(req.Progress, Event{Stage: StageLoad, Status: StatusDone})

	phase = req.Timer.Begin(string(StageIndex))
	_, span := trace.Start(ctx, trace.ScopeStage, "index")
	idx, err := depgraph.BuildTargetIndex(ctx, col.Scripts, req.Jobs)
	if err != nil {
		span.Fail(err)
		req.Timer.End(phase, "")
		return nil, err
	}
	span.Set(trace.Int("targets", idx.Len())).End("")
	req.Timer.End(phase, strconv.Itoa(idx.Len())+" targets")
	return &Build{Collection: col, Targets: idx, jobs: req.Jobs}, nil
}

// Objects returns the object index, building it once.
func (b *Build) Objects(ctx context.Context) (*depgraph.ObjectIndex, error) {
	b.objectsMu.Lock()
	defer b.objectsMu.Unlock()
	if b.objects == nil && b.objectsErr == nil {
		b.objects, b.objectsErr = depgraph.BuildObjectIndex(ctx, b.Collection.Objects, b.jobs)
	}
	return b.objects, b.objectsErr
}
