package shift

import "errors"

// Shift domain errors
var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftNotAvailable  = errors.New("shift is not available for booking")
	ErrShiftNotBooked     = errors.New("shift is not booked")
	ErrNotShiftOwner      = errors.New("shift is booked by another staff member")
	ErrInvalidShiftWindow = errors.New("shift start time must be before end time")
)
