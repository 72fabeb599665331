package postgresql

import (
	"context"
	"fmt"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/location"
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/database"
)

type locationRepositoryImpl struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.LocationRepository {
	return &locationRepositoryImpl{db: db}
}

const locationColumns = `
	id, name, latitude, longitude,
	ssid, require_wifi_for_clock, wifi_tracking_enabled,
	auto_clock_in_enabled, auto_clock_out_enabled, grace_period_minutes,
	created_at, updated_at
`

func scanLocation(row interface{ Scan(dest ...any) error }) (location.Location, error) {
	var loc location.Location
	var latitude, longitude *float64

	err := row.Scan(
		&loc.ID,
		&loc.Name,
		&latitude,
		&longitude,
		&loc.WifiSettings.SSID,
		&loc.WifiSettings.RequireWifiForClockInOut,
		&loc.WifiSettings.WifiTrackingEnabled,
		&loc.WifiSettings.AutoClockInEnabled,
		&loc.WifiSettings.AutoClockOutEnabled,
		&loc.WifiSettings.GracePeriodMinutes,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		return location.Location{}, err
	}

	if latitude != nil && longitude != nil {
		loc.Coordinates = &location.Coordinates{
			Latitude:  *latitude,
			Longitude: *longitude,
		}
	}
	return loc, nil
}

// List implements location.LocationRepository.
func (r *locationRepositoryImpl) List(ctx context.Context) ([]location.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + locationColumns + `
		FROM locations
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []location.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return locations, nil
}

// GetByID implements location.LocationRepository.
func (r *locationRepositoryImpl) GetByID(ctx context.Context, id string) (location.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE id = $1
	`

	loc, err := scanLocation(q.QueryRow(ctx, query, id))
	if err != nil {
		return location.Location{}, err
	}
	return loc, nil
}

// UpdateWifiSettings implements location.LocationRepository.
func (r *locationRepositoryImpl) UpdateWifiSettings(ctx context.Context, id string, settings location.WifiSettings) (location.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE locations
		SET ssid = $2,
			require_wifi_for_clock = $3,
			wifi_tracking_enabled = $4,
			auto_clock_in_enabled = $5,
			auto_clock_out_enabled = $6,
			grace_period_minutes = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + locationColumns + `
	`

	loc, err := scanLocation(q.QueryRow(ctx, query,
		id,
		settings.SSID,
		settings.RequireWifiForClockInOut,
		settings.WifiTrackingEnabled,
		settings.AutoClockInEnabled,
		settings.AutoClockOutEnabled,
		settings.GracePeriodMinutes,
	))
	if err != nil {
		return location.Location{}, err
	}
	return loc, nil
}
