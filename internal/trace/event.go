package trace

import (
	"strconv"
	"time"
)

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindBegin opens a span.
	KindBegin Kind = iota + 1
	// KindEnd closes a span and carries its duration.
	KindEnd
	// KindPoint is an instant note.
	KindPoint
	// KindFail records the error a span ended with.
	KindFail
	KindHeartbeat // periodic liveness signal
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindFail:
		return "fail"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event; lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers a whole CLI command.
	ScopeDriver Scope = iota + 1
	// ScopeStage covers pipeline stages (load, index, resolve, collect, emit).
	ScopeStage
	// ScopeTarget covers per-target work inside a stage.
	ScopeTarget
	ScopeSymbol // per-symbol events
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeStage:
		return "stage"
	case ScopeTarget:
		return "target"
	case ScopeSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Attr is one key/value annotation. Attrs keep the order they were added in.
type Attr struct {
	Key   string
	Value string
}

// String builds a string Attr.
func String(key, value string) Attr { return Attr{Key: key, Value: value} }

// Int builds an integer Attr.
func Int(key string, value int) Attr { return Attr{Key: key, Value: strconv.Itoa(value)} }

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // e.g. "load", "resolve", "symbols"
	Target   string // build target the event is about, if any
	Detail   string
	Elapsed  time.Duration // set on KindEnd
	Attrs    []Attr
}
