package attendance

import "context"

// SessionService defines business logic for attendance sessions. Manual
// clock-in/out comes from the UI; the automatic engine drives the same
// repository through its own evaluation path.
type SessionService interface {
	// ClockIn opens a session for the authenticated staff member
	ClockIn(ctx context.Context, req ClockInRequest) (SessionResponse, error)

	// ClockOut closes the authenticated staff member's open session
	ClockOut(ctx context.Context, req ClockOutRequest) (SessionResponse, error)

	// GetOpenSession returns the caller's open session, if any
	GetOpenSession(ctx context.Context) (*SessionResponse, error)

	// UpdateSession applies an administrator correction to a session
	UpdateSession(ctx context.Context, req UpdateSessionRequest) (SessionResponse, error)
}
