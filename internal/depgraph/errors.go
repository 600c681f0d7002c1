package depgraph

import (
	"errors"
	"fmt"
)

// ErrUnknownTarget matches lookups of a target name absent from the index.
var ErrUnknownTarget = errors.New("unknown target")

// UnknownTargetError reports a target name that is not in the index.
type UnknownTargetError struct {
	Name string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("target does not exist: %s", e.Name)
}

// Is reports whether target is ErrUnknownTarget.
func (e *UnknownTargetError) Is(target error) bool {
	return target == ErrUnknownTarget
}
