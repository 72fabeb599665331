package location

import "time"

type Location struct {
	ID           string
	Name         string
	Coordinates  *Coordinates
	WifiSettings WifiSettings
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// WifiSettings controls the automatic attendance behaviour of a location.
// Mutated only through the admin settings endpoint; attendance decisions
// treat a loaded settings value as immutable.
type WifiSettings struct {
	SSID                     string
	RequireWifiForClockInOut bool
	WifiTrackingEnabled      bool
	AutoClockInEnabled       bool
	AutoClockOutEnabled      bool
	GracePeriodMinutes       int
}

// GracePeriod returns the grace window as a duration.
func (w WifiSettings) GracePeriod() time.Duration {
	return time.Duration(w.GracePeriodMinutes) * time.Minute
}
