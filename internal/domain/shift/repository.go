package shift

import (
	"context"
	"time"
)

// ShiftRepository defines data access methods for shift records.
type ShiftRepository interface {
	// Create creates a single shift record
	Create(ctx context.Context, s Shift) (Shift, error)

	// GetByID retrieves a shift by ID
	GetByID(ctx context.Context, id string) (Shift, error)

	// Update updates a shift (status, assignee)
	Update(ctx context.Context, s Shift) error

	// GetAssigned retrieves shifts assigned to a staff member within a window
	GetAssigned(ctx context.Context, userID string, from, to time.Time) ([]Shift, error)

	// ListByLocation retrieves shifts at a location within a window
	ListByLocation(ctx context.Context, locationID string, from, to time.Time) ([]Shift, error)

	// ListEndedUnattended retrieves booked shifts whose end time plus the
	// location grace period elapsed before the database clock, using the
	// server clock so client skew cannot produce false positives.
	ListEndedUnattended(ctx context.Context) ([]Shift, error)
}
