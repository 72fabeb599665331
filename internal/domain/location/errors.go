package location

import "errors"

// Location domain errors
var (
	ErrLocationNotFound   = errors.New("location not found")
	ErrLocationNoGeofence = errors.New("location has no coordinates configured")
	ErrTrackingNotEnabled = errors.New("wifi tracking is not enabled for this location")
)
