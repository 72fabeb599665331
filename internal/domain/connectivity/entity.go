package connectivity

import "time"

// Observation is one sampled connectivity state for a device/user pair.
// Observations are telemetry: losing one is acceptable, corrupting
// attendance state from one is not.
type Observation struct {
	ID         string
	UserID     string
	SSID       string
	Connected  bool
	LocationID *string
	Latitude   *float64
	Longitude  *float64
	ObservedAt time.Time
}

// SameSignal reports whether two observations carry an identical signal,
// ignoring identity and timestamps. The sampler deduplicates on this.
func (o Observation) SameSignal(other Observation) bool {
	return o.Connected == other.Connected && o.SSID == other.SSID
}

// Reading is a raw sample from the platform's network sensor.
type Reading struct {
	Connected bool
	SSID      string
}

// Position is a raw fix from the platform's geolocation sensor.
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // meters, 0 when unknown
}

// WifiStatus summarizes the device's standing after an observation has been
// evaluated against the location's wifi settings.
type WifiStatus struct {
	Connected     bool    `json:"connected"`
	SSID          string  `json:"ssid"`
	LocationID    *string `json:"location_id,omitempty"`
	ValidForClock bool    `json:"valid_for_clock"`
}
