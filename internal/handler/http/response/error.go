package response

import (
	"errors"
	"net/http"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/attendance"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/location"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/missedshift"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/shift"
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Location domain errors
	case errors.Is(err, location.ErrLocationNotFound):
		NotFound(w, "Location not found")
	case errors.Is(err, location.ErrLocationNoGeofence):
		BadRequest(w, "Location has no coordinates configured", nil)
	case errors.Is(err, location.ErrTrackingNotEnabled):
		BadRequest(w, "Wifi tracking is not enabled for this location", nil)

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftNotAvailable):
		Conflict(w, "Shift is not available for booking")
	case errors.Is(err, shift.ErrShiftNotBooked):
		Conflict(w, "Shift is not booked")
	case errors.Is(err, shift.ErrNotShiftOwner):
		Forbidden(w, "Shift is booked by another staff member")
	case errors.Is(err, shift.ErrInvalidShiftWindow):
		BadRequest(w, "Shift end time must be after start time", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in")
	case errors.Is(err, attendance.ErrNotClockedIn):
		Conflict(w, "No open attendance session")
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Attendance session not found")
	case errors.Is(err, attendance.ErrSessionClosed):
		Conflict(w, "Attendance session is already closed")
	case errors.Is(err, attendance.ErrAmbiguousMatch):
		Conflict(w, "Multiple locations match; manual clock-in required")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Session belongs to another staff member")

	// Missed-shift domain errors
	case errors.Is(err, missedshift.ErrExplanationNotFound):
		NotFound(w, "Missed shift record not found")
	case errors.Is(err, missedshift.ErrExplanationExists):
		Conflict(w, "An explanation record already exists for this shift")
	case errors.Is(err, missedshift.ErrInvalidState):
		Conflict(w, "Record is not in a state that allows this action")
	case errors.Is(err, missedshift.ErrNotExplanationOwner):
		Forbidden(w, "Record belongs to another staff member")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
