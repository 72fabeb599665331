package missedshift

import "context"

// ExplanationRepository defines data access methods for missed-shift
// explanation records.
type ExplanationRepository interface {
	// Create creates a new explanation record in state unexplained
	Create(ctx context.Context, e Explanation) (Explanation, error)

	// GetByID retrieves an explanation by ID
	GetByID(ctx context.Context, id string) (Explanation, error)

	// GetByShiftID retrieves the explanation for a shift, if one exists.
	// Returns (nil, nil) when the shift has no explanation record yet.
	GetByShiftID(ctx context.Context, shiftID string) (*Explanation, error)

	// ListByUser retrieves a user's explanation records, newest first
	ListByUser(ctx context.Context, userID string) ([]Explanation, error)

	// Update persists a state transition
	Update(ctx context.Context, e Explanation) error
}
