package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/location"
)

type locationServiceImpl struct {
	locationRepo location.LocationRepository
}

func NewLocationService(locationRepo location.LocationRepository) location.LocationService {
	return &locationServiceImpl{locationRepo: locationRepo}
}

// List implements location.LocationService.
func (s *locationServiceImpl) List(ctx context.Context) ([]location.LocationResponse, error) {
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	responses := make([]location.LocationResponse, 0, len(locations))
	for _, loc := range locations {
		responses = append(responses, location.MapLocationToResponse(loc))
	}
	return responses, nil
}

// GetByID implements location.LocationService.
func (s *locationServiceImpl) GetByID(ctx context.Context, id string) (location.LocationResponse, error) {
	loc, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.LocationResponse{}, location.ErrLocationNotFound
		}
		return location.LocationResponse{}, fmt.Errorf("failed to get location: %w", err)
	}
	return location.MapLocationToResponse(loc), nil
}

// UpdateWifiSettings implements location.LocationService.
func (s *locationServiceImpl) UpdateWifiSettings(ctx context.Context, id string, req location.UpdateWifiSettingsRequest) (location.LocationResponse, error) {
	if err := req.Validate(); err != nil {
		return location.LocationResponse{}, err
	}

	settings := location.WifiSettings{
		SSID:                     req.SSID,
		RequireWifiForClockInOut: req.RequireWifiForClockInOut,
		WifiTrackingEnabled:      req.WifiTrackingEnabled,
		AutoClockInEnabled:       req.AutoClockInEnabled,
		AutoClockOutEnabled:      req.AutoClockOutEnabled,
		GracePeriodMinutes:       req.GracePeriodMinutes,
	}

	updated, err := s.locationRepo.UpdateWifiSettings(ctx, id, settings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.LocationResponse{}, location.ErrLocationNotFound
		}
		return location.LocationResponse{}, fmt.Errorf("failed to update wifi settings: %w", err)
	}
	return location.MapLocationToResponse(updated), nil
}
