package tracking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("session not found")
	ErrInvalidState        = errors.New("invalid session state")
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("session was modified concurrently, retry the request")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// StateError reports a transition attempted from the wrong lifecycle state.
type StateError struct {
	Op       string
	Current  State
	Required []State
}

func (e *StateError) Error() string {
	required := make([]string, len(e.Required))
	for i, s := range e.Required {
		required[i] = string(s)
	}
	return fmt.Sprintf("cannot %s session in state %s: session must be %s", e.Op, e.Current, strings.Join(required, " or "))
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
