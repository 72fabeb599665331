package missedshift

import (
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/validator"
)

type SubmitExplanationRequest struct {
	ShiftID string `json:"-"`
	Text    string `json:"explanation"`
}

func (r *SubmitExplanationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id is required",
		})
	}
	if validator.IsEmpty(r.Text) {
		errs = append(errs, validator.ValidationError{
			Field:   "explanation",
			Message: "explanation text must not be blank",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReviewRequest struct {
	ID      string  `json:"-"`
	Approve bool    `json:"approve"`
	Notes   *string `json:"notes,omitempty"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "explanation id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ExplanationResponse struct {
	ID          string  `json:"id"`
	ShiftID     string  `json:"shift_id"`
	UserID      string  `json:"user_id"`
	LocationID  string  `json:"location_id"`
	ShiftDate   string  `json:"shift_date"`
	Explanation *string `json:"explanation,omitempty"`
	Status      string  `json:"status"`
	AdminNotes  *string `json:"admin_notes,omitempty"`
	ReviewedBy  *string `json:"reviewed_by,omitempty"`
	ReviewedAt  *string `json:"reviewed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func MapExplanationToResponse(e Explanation) ExplanationResponse {
	resp := ExplanationResponse{
		ID:          e.ID,
		ShiftID:     e.ShiftID,
		UserID:      e.UserID,
		LocationID:  e.LocationID,
		ShiftDate:   e.ShiftDate.Format("2006-01-02"),
		Explanation: e.Explanation,
		Status:      string(e.Status),
		AdminNotes:  e.AdminNotes,
		ReviewedBy:  e.ReviewedBy,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
	if e.ReviewedAt != nil {
		reviewed := e.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewed
	}
	return resp
}
