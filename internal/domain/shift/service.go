package shift

import "context"

// ShiftService defines business logic for the shift calendar, including the
// bulk slot generator's preview/commit flow.
type ShiftService interface {
	// Create creates a single shift (admin)
	Create(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)

	// GetAssigned retrieves the authenticated staff member's shifts for a date range
	GetAssigned(ctx context.Context, from, to string) ([]ShiftResponse, error)

	// Book assigns an available shift to the authenticated staff member
	Book(ctx context.Context, shiftID string) (ShiftResponse, error)

	// Cancel releases a booked shift back to available
	Cancel(ctx context.Context, shiftID string) (ShiftResponse, error)

	// PreviewSlots packs the recurring pattern into slots without persisting
	PreviewSlots(ctx context.Context, req GenerateSlotsRequest) (SlotPreviewResponse, error)

	// CommitSlots persists each generated slot individually and reports
	// per-slot results
	CommitSlots(ctx context.Context, req GenerateSlotsRequest) (SlotCommitResponse, error)
}
