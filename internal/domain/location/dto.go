package location

import (
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/validator"
)

type UpdateWifiSettingsRequest struct {
	ID                       string `json:"-"`
	SSID                     string `json:"ssid"`
	RequireWifiForClockInOut bool   `json:"require_wifi_for_clock_in_out"`
	WifiTrackingEnabled      bool   `json:"is_wifi_tracking_enabled"`
	AutoClockInEnabled       bool   `json:"auto_clock_in_enabled"`
	AutoClockOutEnabled      bool   `json:"auto_clock_out_enabled"`
	GracePeriodMinutes       int    `json:"grace_period_minutes"`
}

func (r *UpdateWifiSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.GracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_period_minutes",
			Message: "grace_period_minutes must be a non-negative number",
		})
	}
	if r.WifiTrackingEnabled && validator.IsEmpty(r.SSID) {
		errs = append(errs, validator.ValidationError{
			Field:   "ssid",
			Message: "ssid is required when wifi tracking is enabled",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LocationResponse struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	Latitude                 *float64 `json:"latitude,omitempty"`
	Longitude                *float64 `json:"longitude,omitempty"`
	SSID                     string   `json:"ssid"`
	RequireWifiForClockInOut bool     `json:"require_wifi_for_clock_in_out"`
	WifiTrackingEnabled      bool     `json:"is_wifi_tracking_enabled"`
	AutoClockInEnabled       bool     `json:"auto_clock_in_enabled"`
	AutoClockOutEnabled      bool     `json:"auto_clock_out_enabled"`
	GracePeriodMinutes       int      `json:"grace_period_minutes"`
}

func MapLocationToResponse(loc Location) LocationResponse {
	resp := LocationResponse{
		ID:                       loc.ID,
		Name:                     loc.Name,
		SSID:                     loc.WifiSettings.SSID,
		RequireWifiForClockInOut: loc.WifiSettings.RequireWifiForClockInOut,
		WifiTrackingEnabled:      loc.WifiSettings.WifiTrackingEnabled,
		AutoClockInEnabled:       loc.WifiSettings.AutoClockInEnabled,
		AutoClockOutEnabled:      loc.WifiSettings.AutoClockOutEnabled,
		GracePeriodMinutes:       loc.WifiSettings.GracePeriodMinutes,
	}
	if loc.Coordinates != nil {
		resp.Latitude = &loc.Coordinates.Latitude
		resp.Longitude = &loc.Coordinates.Longitude
	}
	return resp
}
