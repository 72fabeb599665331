package connectivity

import "errors"

var (
	// ErrSensorUnavailable means the platform capability is missing or
	// permission was denied. Distinct from "disconnected": the sampler
	// skips the cycle instead of emitting an observation.
	ErrSensorUnavailable = errors.New("sensor unavailable")

	ErrObservationNotFound = errors.New("connectivity observation not found")
)
