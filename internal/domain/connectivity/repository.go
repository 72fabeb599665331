package connectivity

import "context"

// HistoryRepository stores reported observations for audit. Writes are
// best-effort from the caller's perspective; reads back a bounded window.
type HistoryRepository interface {
	// Save persists one observation
	Save(ctx context.Context, o Observation) (Observation, error)

	// ListByUser retrieves a user's observations from the last N days,
	// newest first
	ListByUser(ctx context.Context, userID string, days int) ([]Observation, error)
}
