package connectivity

import (
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/validator"
)

type ReportRequest struct {
	SSID       string   `json:"ssid"`
	Connected  bool     `json:"connected"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	ObservedAt *string  `json:"observed_at,omitempty"` // RFC 3339, defaults to server time
}

func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Connected && validator.IsEmpty(r.SSID) {
		errs = append(errs, validator.ValidationError{
			Field:   "ssid",
			Message: "ssid is required for a connected observation",
		})
	}
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "latitude and longitude must be provided together",
		})
	}
	if r.ObservedAt != nil {
		if _, ok := validator.IsValidDateTime(*r.ObservedAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "observed_at",
				Message: "observed_at must be a valid RFC 3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ReportResponse mirrors the backend contract: the device learns its wifi
// standing and which automatic actions its observation triggered.
type ReportResponse struct {
	WifiStatus       WifiStatus `json:"wifi_status"`
	TriggeredActions []string   `json:"triggered_actions"`
}

type ObservationResponse struct {
	ID         string   `json:"id"`
	SSID       string   `json:"ssid"`
	Connected  bool     `json:"connected"`
	LocationID *string  `json:"location_id,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	ObservedAt string   `json:"observed_at"`
}

func MapObservationToResponse(o Observation) ObservationResponse {
	return ObservationResponse{
		ID:         o.ID,
		SSID:       o.SSID,
		Connected:  o.Connected,
		LocationID: o.LocationID,
		Latitude:   o.Latitude,
		Longitude:  o.Longitude,
		ObservedAt: o.ObservedAt.Format(time.RFC3339),
	}
}
