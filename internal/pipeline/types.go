// Package pipeline runs tracegen's operations over a loaded build log:
// listing targets, inspecting dependencies and generating probe scripts.
package pipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageLoad reads and decodes the build log.
	StageLoad Stage = "load"
	// StageIndex builds the target and object indices.
	StageIndex Stage = "index"
	// StageResolve expands the dependency closure.
	StageResolve Stage = "resolve"
	// StageCollect gathers the symbols of every target.
	StageCollect Stage = "collect"
	// StageEmit renders and writes the probe script.
	StageEmit Stage = "emit"
)

// Stages lists the gen stages in execution order.
func Stages() []Stage {
	return []Stage{StageLoad, StageIndex, StageResolve, StageCollect, StageEmit}
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a target (or for the whole run when Target is empty).
type Event struct {
	Target  string
	Stage   Stage
	Status  Status
	Detail  string
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called from
// several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, ev Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(ev)
}
