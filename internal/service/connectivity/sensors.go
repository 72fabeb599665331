package connectivity

import (
	"context"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/connectivity"
)

// PlatformSensors abstracts the device capabilities the sampler reads from.
// Implementations return connectivity.ErrSensorUnavailable when the platform
// lacks the capability or permission was denied; the sampler treats that as
// "skip this cycle", never as "disconnected".
type PlatformSensors interface {
	// Connectivity reads the current wifi state
	Connectivity(ctx context.Context) (connectivity.Reading, error)

	// Position reads the current geolocation fix
	Position(ctx context.Context) (connectivity.Position, error)
}
