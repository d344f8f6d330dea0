package cellular

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownReactionKind is matched by every UnknownReactionKindError.
	ErrUnknownReactionKind = errors.New("unknown reaction kind")
	// ErrNotImplemented is matched by every NotImplementedError.
	ErrNotImplemented = errors.New("reaction not implemented")

	ErrOutOfBounds = errors.New("position out of bounds")
	ErrNoCell      = errors.New("no cell at position")
	ErrInvalidSize = errors.New("invalid tissue dimensions")
)

// UnknownReactionKindError is returned when a state has no registered strategy.
type UnknownReactionKindError struct {
	State CellState
}

func (e *UnknownReactionKindError) Error() string {
	return fmt.Sprintf("unknown reaction kind: no strategy registered for state %q", string(e.State))
}

func (e *UnknownReactionKindError) Unwrap() error {
	return ErrUnknownReactionKind
}

// NotImplementedError signals a strategy variant without a Process
// implementation. It is a development-time defect.
type NotImplementedError struct {
	Variant string
}

func (e *NotImplementedError) Error() string {
	if e.Variant == "" {
		return "reaction not implemented: strategy variant must specialize Process"
	}
	return fmt.Sprintf("reaction not implemented: %s must specialize Process", e.Variant)
}

func (e *NotImplementedError) Unwrap() error {
	return ErrNotImplemented
}
