package attendance

import (
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	LocationID string   `json:"location_id"`
	ShiftID    *string  `json:"shift_id,omitempty"`
	SSID       *string  `json:"ssid,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LocationID) {
		errs = append(errs, validator.ValidationError{
			Field:   "location_id",
			Message: "location_id is required",
		})
	}
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	SSID      *string  `json:"ssid,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateSessionRequest is the administrator correction surface for fixing
// wrong clock times after the fact.
type UpdateSessionRequest struct {
	ID       string  `json:"-"`
	ClockIn  *string `json:"clock_in,omitempty"`  // RFC 3339
	ClockOut *string `json:"clock_out,omitempty"` // RFC 3339
	Status   *string `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (r *UpdateSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "session id is required",
		})
	}
	if r.ClockIn != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in",
				Message: "clock_in must be a valid RFC 3339 timestamp",
			})
		}
	}
	if r.ClockOut != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be a valid RFC 3339 timestamp",
			})
		}
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: clocked_in, clocked_out, pending, approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SessionResponse struct {
	ID                 string   `json:"id"`
	UserID             string   `json:"user_id"`
	ShiftID            *string  `json:"shift_id,omitempty"`
	ClockInTime        string   `json:"clock_in_time"`
	ClockInLocationID  *string  `json:"clock_in_location_id,omitempty"`
	ClockInSSID        *string  `json:"clock_in_ssid,omitempty"`
	ClockOutTime       *string  `json:"clock_out_time,omitempty"`
	ClockOutLocationID *string  `json:"clock_out_location_id,omitempty"`
	ClockOutSSID       *string  `json:"clock_out_ssid,omitempty"`
	WorkHours          *float64 `json:"work_hours,omitempty"`
	Status             string   `json:"status"`
	AutoClockIn        bool     `json:"auto_clock_in"`
	AutoClockOut       bool     `json:"auto_clock_out"`
	Notes              *string  `json:"notes,omitempty"`
}

func MapSessionToResponse(s Session) SessionResponse {
	resp := SessionResponse{
		ID:                 s.ID,
		UserID:             s.UserID,
		ShiftID:            s.ShiftID,
		ClockInTime:        s.ClockIn.Format(time.RFC3339),
		ClockInLocationID:  s.ClockInLocationID,
		ClockInSSID:        s.ClockInSSID,
		ClockOutLocationID: s.ClockOutLocationID,
		ClockOutSSID:       s.ClockOutSSID,
		Status:             string(s.Status),
		AutoClockIn:        s.AutoClockIn,
		AutoClockOut:       s.AutoClockOut,
		Notes:              s.Notes,
	}
	if s.ClockOut != nil {
		out := s.ClockOut.Format(time.RFC3339)
		resp.ClockOutTime = &out
	}
	if s.WorkMinutes != nil {
		hours := float64(*s.WorkMinutes) / 60.0
		resp.WorkHours = &hours
	}
	return resp
}
