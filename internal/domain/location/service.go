package location

import "context"

// LocationService defines business logic for work locations.
type LocationService interface {
	// List returns all locations
	List(ctx context.Context) ([]LocationResponse, error)

	// GetByID returns a location by ID
	GetByID(ctx context.Context, id string) (LocationResponse, error)

	// UpdateWifiSettings replaces a location's wifi/attendance settings
	UpdateWifiSettings(ctx context.Context, id string, req UpdateWifiSettingsRequest) (LocationResponse, error)
}
