package missedshift

import "errors"

// Missed-shift domain errors
var (
	ErrExplanationNotFound = errors.New("missed shift explanation not found")
	ErrExplanationExists   = errors.New("an explanation record already exists for this shift")

	// ErrInvalidState rejects any transition outside
	// unexplained → pending_review → approved|rejected.
	ErrInvalidState = errors.New("explanation is not in a state that allows this action")

	ErrNotExplanationOwner = errors.New("explanation belongs to another staff member")
)
