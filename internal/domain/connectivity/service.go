package connectivity

import "context"

// ConnectivityService defines business logic for device connectivity reports.
type ConnectivityService interface {
	// Report records an observation for the authenticated staff member and
	// runs it through the automatic attendance evaluation
	Report(ctx context.Context, req ReportRequest) (ReportResponse, error)

	// History returns the caller's observations from the last N days
	History(ctx context.Context, days int) ([]ObservationResponse, error)
}
