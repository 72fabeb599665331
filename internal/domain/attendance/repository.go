package attendance

import (
	"context"
	"time"
)

// SessionRepository defines data access methods for attendance sessions.
// Open/close are the only write paths into clock times; the at-most-one-open
// invariant is enforced by callers checking GetOpenSession first and by a
// partial unique index on (user_id) WHERE clock_out IS NULL.
type SessionRepository interface {
	// Create creates a new session (clock-in)
	Create(ctx context.Context, s Session) (Session, error)

	// GetByID retrieves a session by ID
	GetByID(ctx context.Context, id string) (Session, error)

	// GetOpenSession retrieves the user's open session, if any.
	// Returns (nil, nil) when the user is not clocked in.
	GetOpenSession(ctx context.Context, userID string) (*Session, error)

	// Close closes an open session (clock-out)
	Close(ctx context.Context, s Session) error

	// Update applies an administrator correction
	Update(ctx context.Context, s Session) error

	// FindForShift retrieves a session linked to a shift by foreign key
	FindForShift(ctx context.Context, shiftID string) (*Session, error)

	// FindInWindow retrieves the user's sessions whose clock-in falls inside
	// [from, to] at the given location. Fallback matching for sessions the
	// auto clock-in path created without a shift link.
	FindInWindow(ctx context.Context, userID, locationID string, from, to time.Time) ([]Session, error)

	// ListStaleOpen retrieves open sessions attached to shifts that ended
	// more than the given number of hours ago, by the database clock.
	ListStaleOpen(ctx context.Context, olderThanHours int) ([]Session, error)
}
