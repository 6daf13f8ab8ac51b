package arel

import "errors"

// Error categories. Concrete errors wrap one of these so callers can
// classify failures with errors.Is.
var (
	// ErrInvalidArgument reports a malformed argument: an unknown join kind,
	// an empty name, a value of an unsupported shape.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState reports a statement or builder that cannot be compiled
	// or extended in its current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrTypeMismatch reports a value that cannot be represented as SQL for
	// the column it is compared against.
	ErrTypeMismatch = errors.New("type mismatch")
)
