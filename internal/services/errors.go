package services

import "errors"

var (
	// ErrValidation indicates a missing or malformed client-supplied field.
	// Surfaced as a client error, never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced record does not exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyFinalized indicates a state transition lost the race: the
	// request is no longer PENDING, so the conditional update matched zero
	// rows. The existing terminal state is left untouched.
	ErrAlreadyFinalized = errors.New("request already finalized")
)
