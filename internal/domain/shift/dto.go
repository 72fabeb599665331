package shift

import (
	"math"
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/validator"
)

type CreateShiftRequest struct {
	LocationID string  `json:"location_id"`
	StartTime  string  `json:"start_time"` // RFC 3339
	EndTime    string  `json:"end_time"`   // RFC 3339
	AssignedTo *string `json:"assigned_to,omitempty"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LocationID) {
		errs = append(errs, validator.ValidationError{
			Field:   "location_id",
			Message: "location_id is required",
		})
	}

	start, okStart := validator.IsValidDateTime(r.StartTime)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be a valid RFC 3339 timestamp",
		})
	}
	end, okEnd := validator.IsValidDateTime(r.EndTime)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be a valid RFC 3339 timestamp",
		})
	}
	if okStart && okEnd && !start.Before(end) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be after start_time",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// GenerateSlotsRequest describes a recurring work pattern to be packed into
// discrete shift slots. Days are keyed monday..sunday.
type GenerateSlotsRequest struct {
	LocationID    string          `json:"location_id"`
	StartDate     string          `json:"start_date"` // 2006-01-02, inclusive
	EndDate       string          `json:"end_date"`   // 2006-01-02, inclusive
	WorkingStart  string          `json:"working_start"` // 15:04
	WorkingEnd    string          `json:"working_end"`   // 15:04
	DurationHours float64         `json:"shift_duration_hours"`
	BreakHours    float64         `json:"break_hours"`
	DaysOfWeek    map[string]bool `json:"days_of_week"`
}

var dayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (r *GenerateSlotsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LocationID) {
		errs = append(errs, validator.ValidationError{
			Field:   "location_id",
			Message: "location_id is required",
		})
	}

	startDate, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}
	endDate, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date (YYYY-MM-DD)",
		})
	}
	if okStart && okEnd && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	workStart, okWorkStart := validator.IsValidTimeOfDay(r.WorkingStart)
	if !okWorkStart {
		errs = append(errs, validator.ValidationError{
			Field:   "working_start",
			Message: "working_start must be a valid time of day (HH:MM)",
		})
	}
	workEnd, okWorkEnd := validator.IsValidTimeOfDay(r.WorkingEnd)
	if !okWorkEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "working_end",
			Message: "working_end must be a valid time of day (HH:MM)",
		})
	}
	if okWorkStart && okWorkEnd && !workStart.Before(workEnd) {
		errs = append(errs, validator.ValidationError{
			Field:   "working_end",
			Message: "working_end must be after working_start",
		})
	}

	if r.DurationHours <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_duration_hours",
			Message: "shift_duration_hours must be a positive number",
		})
	} else if int(math.Round(r.DurationHours*60)) < 1 {
		// Slot packing works in whole minutes; a duration that rounds to zero
		// minutes cannot advance the schedule.
		errs = append(errs, validator.ValidationError{
			Field:   "shift_duration_hours",
			Message: "shift_duration_hours must be at least one minute",
		})
	}
	if r.BreakHours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_hours",
			Message: "break_hours must be a non-negative number",
		})
	}

	for day := range r.DaysOfWeek {
		if !validator.IsInSlice(day, dayNames) {
			errs = append(errs, validator.ValidationError{
				Field:   "days_of_week",
				Message: "unknown day name: " + day,
			})
		}
	}
	selected := false
	for _, on := range r.DaysOfWeek {
		if on {
			selected = true
			break
		}
	}
	if !selected {
		errs = append(errs, validator.ValidationError{
			Field:   "days_of_week",
			Message: "at least one day must be selected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftResponse struct {
	ID         string  `json:"id"`
	LocationID string  `json:"location_id"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	AssignedTo *string `json:"assigned_to,omitempty"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func MapShiftToResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:         s.ID,
		LocationID: s.LocationID,
		StartTime:  s.StartTime.Format(time.RFC3339),
		EndTime:    s.EndTime.Format(time.RFC3339),
		AssignedTo: s.AssignedTo,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  s.UpdatedAt.Format(time.RFC3339),
	}
}

type SlotPreviewResponse struct {
	LocationID string         `json:"location_id"`
	TotalSlots int            `json:"total_slots"`
	Slots      []SlotResponse `json:"slots"`
}

type SlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SlotCommitResult reports the outcome of persisting one generated slot.
// Bulk creation is never all-or-nothing; each slot succeeds or fails alone.
type SlotCommitResult struct {
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	ShiftID   *string `json:"shift_id,omitempty"`
	Error     *string `json:"error,omitempty"`
}

type SlotCommitResponse struct {
	LocationID string             `json:"location_id"`
	Created    int                `json:"created"`
	Failed     int                `json:"failed"`
	Results    []SlotCommitResult `json:"results"`
}
