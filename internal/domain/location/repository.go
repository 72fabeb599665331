package location

import "context"

// LocationRepository defines data access methods for locations. Locations are
// owned by the scheduling admin; attendance flows only read them.
type LocationRepository interface {
	// List retrieves all locations
	List(ctx context.Context) ([]Location, error)

	// GetByID retrieves a location by ID
	GetByID(ctx context.Context, id string) (Location, error)

	// UpdateWifiSettings replaces the wifi/attendance settings of a location.
	// The only write path into WifiSettings.
	UpdateWifiSettings(ctx context.Context, id string, settings WifiSettings) (Location, error)
}
