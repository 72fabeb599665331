package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyClockedIn = errors.New("you are already clocked in")
	ErrNotClockedIn     = errors.New("you are not clocked in")
	ErrSessionNotFound  = errors.New("attendance session not found")
	ErrSessionClosed    = errors.New("attendance session is already closed")

	// ErrAmbiguousMatch is returned when shifts at more than one location
	// qualify for an automatic clock-in; the engine never guesses.
	ErrAmbiguousMatch = errors.New("multiple locations qualify, manual clock-in required")

	ErrUnauthorized = errors.New("unauthorized to access this attendance session")
)
