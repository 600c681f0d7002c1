package trace

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

var (
	spanIDs   atomic.Uint64
	openSpans atomic.Int64
)

// Span tracks one logical operation from Start to End.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	scope    Scope
	name     string
	target   string
	started  time.Time

	mu    sync.Mutex
	attrs []Attr
	done  bool
}

// Start opens a span under the span carried by ctx and returns a context
// carrying the new one. When the tracer's level filters the scope out, the
// span is inert and ctx is returned unchanged.
func Start(ctx context.Context, scope Scope, name string, attrs ...Attr) (context.Context, *Span) {
	return start(ctx, scope, name, "", attrs)
}

// StartTarget is Start for work on one build target.
func StartTarget(ctx context.Context, target, name string, attrs ...Attr) (context.Context, *Span) {
	return start(ctx, ScopeTarget, name, target, attrs)
}

func start(ctx context.Context, scope Scope, name, target string, attrs []Attr) (context.Context, *Span) {
	t := FromContext(ctx)
	if !t.Level().Allows(KindBegin, scope) {
		// failures are still recorded at error level
		return ctx, &Span{tracer: t, scope: scope, name: name, target: target}
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		scope:   scope,
		name:    name,
		target:  target,
		started: time.Now(),
		attrs:   append([]Attr(nil), attrs...),
	}
	if parent := SpanFromContext(ctx); parent != nil {
		s.parentID = parent.id
	}
	openSpans.Add(1)
	t.Emit(&Event{
		Time:     s.started,
		Kind:     KindBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Name:     name,
		Target:   target,
		Attrs:    attrs,
	})
	return context.WithValue(ctx, spanKey{}, s), s
}

// Set adds attributes reported when the span ends.
func (s *Span) Set(attrs ...Attr) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	s.mu.Lock()
	s.attrs = append(s.attrs, attrs...)
	s.mu.Unlock()
	return s
}

// End closes the span and returns its duration. Only the first End or
// Fail has an effect.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 || !s.finish() {
		return 0
	}
	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Name:     s.name,
		Target:   s.target,
		Detail:   detail,
		Elapsed:  dur,
		Attrs:    s.snapshotAttrs(),
	})
	return dur
}

// Fail records err against the span and ends it.
func (s *Span) Fail(err error) {
	if s == nil || err == nil {
		return
	}
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindFail,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Name:     s.name,
		Target:   s.target,
		Detail:   err.Error(),
	})
	s.End("failed")
}

// ID returns the span ID, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) finish() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return false
	}
	s.done = true
	openSpans.Add(-1)
	return true
}

func (s *Span) snapshotAttrs() []Attr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Attr(nil), s.attrs...)
}

// Note records an instant event under the span carried by ctx.
func Note(ctx context.Context, scope Scope, name, detail string, attrs ...Attr) {
	note(ctx, scope, name, "", detail, attrs)
}

// TargetNote is Note for an event about one build target.
func TargetNote(ctx context.Context, target, name, detail string, attrs ...Attr) {
	note(ctx, ScopeTarget, name, target, detail, attrs)
}

func note(ctx context.Context, scope Scope, name, target, detail string, attrs []Attr) {
	t := FromContext(ctx)
	if !t.Level().Allows(KindPoint, scope) {
		return
	}
	ev := &Event{
		Time:   time.Now(),
		Kind:   KindPoint,
		Scope:  scope,
		Name:   name,
		Target: target,
		Detail: detail,
		Attrs:  attrs,
	}
	if parent := SpanFromContext(ctx); parent != nil {
		ev.ParentID = parent.id
	}
	t.Emit(ev)
}
