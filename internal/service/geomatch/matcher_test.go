package geomatch

import (
	"testing"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/connectivity"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackedLocation(id string, lat, lon float64) location.Location {
	return location.Location{
		ID:          id,
		Coordinates: &location.Coordinates{Latitude: lat, Longitude: lon},
		WifiSettings: location.WifiSettings{
			SSID:                "Office",
			WifiTrackingEnabled: true,
		},
	}
}

func TestMatcher_Match_WithinRadius(t *testing.T) {
	t.Parallel()
	m := NewMatcher(0)

	// ~55m east of the location at this latitude
	pos := connectivity.Position{Latitude: 40.0, Longitude: -74.0 + 0.00065}
	locations := []location.Location{trackedLocation("loc-1", 40.0, -74.0)}

	matched := m.Match(pos, locations)

	require.NotNil(t, matched)
	assert.Equal(t, "loc-1", matched.ID)
}

func TestMatcher_Match_OutsideRadius(t *testing.T) {
	t.Parallel()
	m := NewMatcher(0)

	// ~1.1km away
	pos := connectivity.Position{Latitude: 40.01, Longitude: -74.0}
	locations := []location.Location{trackedLocation("loc-1", 40.0, -74.0)}

	assert.Nil(t, m.Match(pos, locations))
}

func TestMatcher_Match_PicksClosest(t *testing.T) {
	t.Parallel()
	m := NewMatcher(0)

	pos := connectivity.Position{Latitude: 40.0, Longitude: -74.0}
	locations := []location.Location{
		trackedLocation("far", 40.0, -74.0+0.0008),  // ~68m
		trackedLocation("near", 40.0, -74.0+0.0002), // ~17m
	}

	matched := m.Match(pos, locations)

	require.NotNil(t, matched)
	assert.Equal(t, "near", matched.ID)
}

func TestMatcher_Match_SkipsUntrackedAndMissingCoordinates(t *testing.T) {
	t.Parallel()
	m := NewMatcher(0)

	pos := connectivity.Position{Latitude: 40.0, Longitude: -74.0}

	untracked := trackedLocation("untracked", 40.0, -74.0)
	untracked.WifiSettings.WifiTrackingEnabled = false

	noCoords := location.Location{
		ID:           "no-coords",
		WifiSettings: location.WifiSettings{WifiTrackingEnabled: true},
	}

	assert.Nil(t, m.Match(pos, []location.Location{untracked, noCoords}))
}

func TestMatcher_MatchBySSID(t *testing.T) {
	t.Parallel()
	m := NewMatcher(0)

	office := trackedLocation("office", 40.0, -74.0)
	warehouse := trackedLocation("warehouse", 41.0, -75.0)
	warehouse.WifiSettings.SSID = "Warehouse"
	hidden := trackedLocation("hidden", 42.0, -76.0)
	hidden.WifiSettings.WifiTrackingEnabled = false

	locations := []location.Location{office, warehouse, hidden}

	matched := m.MatchBySSID("Office", locations)
	require.Len(t, matched, 1)
	assert.Equal(t, "office", matched[0].ID)

	assert.Empty(t, m.MatchBySSID("", locations))
	assert.Empty(t, m.MatchBySSID("Unknown", locations))
}
