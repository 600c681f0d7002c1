package buildlog

import (
	"errors"
	"fmt"
)

var (
	// ErrInputUnavailable matches errors for a build log that cannot be read.
	ErrInputUnavailable = errors.New("input unavailable")
	// ErrMalformedInput matches errors for a build log that does not decode into a Collection.
	ErrMalformedInput = errors.New("malformed input")
)

// InputKind classifies an InputError.
type InputKind uint8

const (
	// InputUnavailable means the file is missing or unreadable.
	InputUnavailable InputKind = iota + 1
	// MalformedInput means the content does not match the build log shape.
	MalformedInput
)

func (k InputKind) String() string {
	switch k {
	case InputUnavailable:
		return "input unavailable"
	case MalformedInput:
		return "malformed input"
	default:
		return "unknown input error"
	}
}

// InputError reports a failure to load a build log.
type InputError struct {
	Kind InputKind
	Path string
	Err  error
}

func (e *InputError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Is matches the sentinel corresponding to the error kind.
func (e *InputError) Is(target error) bool {
	switch target {
	case ErrInputUnavailable:
		return e.Kind == InputUnavailable
	case ErrMalformedInput:
		return e.Kind == MalformedInput
	}
	return false
}
