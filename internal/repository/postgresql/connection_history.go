package postgresql

import (
	"context"
	"fmt"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/connectivity"
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/database"
)

type historyRepositoryImpl struct {
	db *database.DB
}

func NewHistoryRepository(db *database.DB) connectivity.HistoryRepository {
	return &historyRepositoryImpl{db: db}
}

// Save implements connectivity.HistoryRepository.
func (r *historyRepositoryImpl) Save(ctx context.Context, o connectivity.Observation) (connectivity.Observation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO connection_history (
			id, user_id, ssid, connected, location_id, latitude, longitude, observed_at, created_at
		)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, user_id, ssid, connected, location_id, latitude, longitude, observed_at
	`

	var result connectivity.Observation
	err := q.QueryRow(ctx, query,
		o.UserID,
		o.SSID,
		o.Connected,
		o.LocationID,
		o.Latitude,
		o.Longitude,
		o.ObservedAt,
	).Scan(
		&result.ID,
		&result.UserID,
		&result.SSID,
		&result.Connected,
		&result.LocationID,
		&result.Latitude,
		&result.Longitude,
		&result.ObservedAt,
	)

	if err != nil {
		return connectivity.Observation{}, fmt.Errorf("failed to save observation: %w", err)
	}

	return result, nil
}

// ListByUser implements connectivity.HistoryRepository.
func (r *historyRepositoryImpl) ListByUser(ctx context.Context, userID string, days int) ([]connectivity.Observation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, ssid, connected, location_id, latitude, longitude, observed_at
		FROM connection_history
		WHERE user_id = $1
		  AND observed_at >= NOW() - make_interval(days => $2)
		ORDER BY observed_at DESC
	`

	rows, err := q.Query(ctx, query, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to list connection history: %w", err)
	}
	defer rows.Close()

	var observations []connectivity.Observation
	for rows.Next() {
		var o connectivity.Observation
		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.SSID,
			&o.Connected,
			&o.LocationID,
			&o.Latitude,
			&o.Longitude,
			&o.ObservedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		observations = append(observations, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return observations, nil
}
