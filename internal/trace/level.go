package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // failures only
	LevelStage               // command + stage boundaries
	LevelDetail              // per-target events
	LevelDebug               // everything
)

var levelNames = [...]string{"off", "error", "stage", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a --trace-level value to a Level.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Allows reports whether an event of the given kind and scope is recorded
// at level l. Failures pass at every level but off; heartbeats need stage.
func (l Level) Allows(kind Kind, scope Scope) bool {
	switch {
	case l == LevelOff:
		return false
	case kind == KindFail:
		return true
	case l == LevelError:
		return false
	case kind == KindHeartbeat:
		return true
	case l == LevelStage:
		return scope <= ScopeStage
	case l == LevelDetail:
		return scope <= ScopeTarget
	default:
		return true
	}
}
