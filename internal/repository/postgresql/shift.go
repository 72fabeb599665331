package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/shift"
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (id, location_id, start_time, end_time, assigned_to, status, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, location_id, start_time, end_time, assigned_to, status, created_at, updated_at
	`

	var result shift.Shift
	err := q.QueryRow(ctx, query, s.LocationID, s.StartTime, s.EndTime, s.AssignedTo, s.Status).Scan(
		&result.ID,
		&result.LocationID,
		&result.StartTime,
		&result.EndTime,
		&result.AssignedTo,
		&result.Status,
		&result.CreatedAt,
		&result.UpdatedAt,
	)

	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return result, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, location_id, start_time, end_time, assigned_to, status, created_at, updated_at
		FROM shifts
		WHERE id = $1
	`

	var result shift.Shift
	err := q.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.LocationID,
		&result.StartTime,
		&result.EndTime,
		&result.AssignedTo,
		&result.Status,
		&result.CreatedAt,
		&result.UpdatedAt,
	)

	if err != nil {
		return shift.Shift{}, err
	}

	return result, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET assigned_to = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, s.ID, s.AssignedTo, s.Status)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}

	return nil
}

// GetAssigned implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetAssigned(ctx context.Context, userID string, from, to time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, location_id, start_time, end_time, assigned_to, status, created_at, updated_at
		FROM shifts
		WHERE assigned_to = $1
		  AND status = 'BOOKED'
		  AND end_time >= $2
		  AND start_time <= $3
		ORDER BY start_time ASC
	`

	return r.queryShifts(ctx, q, query, userID, from, to)
}

// ListByLocation implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ListByLocation(ctx context.Context, locationID string, from, to time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, location_id, start_time, end_time, assigned_to, status, created_at, updated_at
		FROM shifts
		WHERE location_id = $1
		  AND end_time >= $2
		  AND start_time <= $3
		ORDER BY start_time ASC
	`

	return r.queryShifts(ctx, q, query, locationID, from, to)
}

// ListEndedUnattended implements shift.ShiftRepository. The grace margin is
// evaluated against the database clock so client skew cannot flag a shift
// that is still within its grace window.
func (r *shiftRepositoryImpl) ListEndedUnattended(ctx context.Context) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.location_id, s.start_time, s.end_time, s.assigned_to, s.status, s.created_at, s.updated_at
		FROM shifts s
		JOIN locations l ON l.id = s.location_id
		WHERE s.status = 'BOOKED'
		  AND s.assigned_to IS NOT NULL
		  AND s.end_time + make_interval(mins => l.grace_period_minutes) < NOW()
		ORDER BY s.end_time ASC
	`

	return r.queryShifts(ctx, q, query)
}

func (r *shiftRepositoryImpl) queryShifts(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]shift.Shift, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		var s shift.Shift
		err := rows.Scan(
			&s.ID,
			&s.LocationID,
			&s.StartTime,
			&s.EndTime,
			&s.AssignedTo,
			&s.Status,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return shifts, nil
}
