package missedshift

import "context"

// ExplanationService defines the staff and admin operations of the
// missed-shift workflow. Detection itself runs as a background job.
type ExplanationService interface {
	// GetMissedShifts retrieves the authenticated staff member's queue of
	// shifts requiring explanation, plus already-processed records
	GetMissedShifts(ctx context.Context) ([]ExplanationResponse, error)

	// SubmitExplanation attaches the staff member's free-text explanation,
	// moving the record from unexplained to pending_review
	SubmitExplanation(ctx context.Context, req SubmitExplanationRequest) (ExplanationResponse, error)

	// Review records the administrator verdict on a pending_review record
	Review(ctx context.Context, req ReviewRequest) (ExplanationResponse, error)
}
