package geomatch

import (
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/connectivity"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/location"
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/utils"
)

// DefaultProximityRadiusMeters is how close a position fix must be to a
// location's coordinates to count as a geofence match. Distances are haversine
// meters throughout; the legacy degree-delta thresholds were dropped.
const DefaultProximityRadiusMeters = 100.0

// Matcher resolves a position fix to the nearest qualifying location.
// Stateless and deterministic.
type Matcher struct {
	radiusMeters float64
}

func NewMatcher(radiusMeters float64) *Matcher {
	if radiusMeters <= 0 {
		radiusMeters = DefaultProximityRadiusMeters
	}
	return &Matcher{radiusMeters: radiusMeters}
}

// Match returns the closest location within the proximity radius that has
// wifi tracking enabled, or nil when none qualifies. Locations without
// coordinates are skipped rather than treated as errors.
func (m *Matcher) Match(pos connectivity.Position, locations []location.Location) *location.Location {
	var best *location.Location
	bestDistance := m.radiusMeters

	for i := range locations {
		loc := &locations[i]
		if !loc.WifiSettings.WifiTrackingEnabled || loc.Coordinates == nil {
			continue
		}

		distance := utils.CalculateHaversineDistance(
			pos.Latitude, pos.Longitude,
			loc.Coordinates.Latitude, loc.Coordinates.Longitude,
		)
		if distance <= bestDistance {
			best = loc
			bestDistance = distance
		}
	}

	return best
}

// MatchBySSID returns the locations whose configured SSID equals the observed
// network name, restricted to those with wifi tracking enabled. Used by the
// attendance engine when an observation carries no position fix.
func (m *Matcher) MatchBySSID(ssid string, locations []location.Location) []location.Location {
	if ssid == "" {
		return nil
	}

	var matched []location.Location
	for _, loc := range locations {
		if loc.WifiSettings.WifiTrackingEnabled && loc.WifiSettings.SSID == ssid {
			matched = append(matched, loc)
		}
	}
	return matched
}
