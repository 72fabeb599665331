package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/attendance"
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/database"
)

type sessionRepositoryImpl struct {
	db *database.DB
}

// NewSessionRepository creates the attendance session store. The schema
// carries a partial unique index on (user_id) WHERE clock_out IS NULL, which
// is what ultimately guarantees at most one open session per user.
func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

const sessionColumns = `
	id, user_id, shift_id,
	clock_in, clock_in_location_id, clock_in_ssid, clock_in_latitude, clock_in_longitude,
	clock_out, clock_out_location_id, clock_out_ssid, clock_out_latitude, clock_out_longitude,
	work_minutes, status, notes, auto_clock_in, auto_clock_out,
	created_at, updated_at
`

func scanSession(row interface{ Scan(dest ...any) error }) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.ShiftID,
		&s.ClockIn,
		&s.ClockInLocationID,
		&s.ClockInSSID,
		&s.ClockInLatitude,
		&s.ClockInLongitude,
		&s.ClockOut,
		&s.ClockOutLocationID,
		&s.ClockOutSSID,
		&s.ClockOutLatitude,
		&s.ClockOutLongitude,
		&s.WorkMinutes,
		&s.Status,
		&s.Notes,
		&s.AutoClockIn,
		&s.AutoClockOut,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

// Create implements attendance.SessionRepository.
func (r *sessionRepositoryImpl) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (
			id, user_id, shift_id,
			clock_in, clock_in_location_id, clock_in_ssid, clock_in_latitude, clock_in_longitude,
			status, auto_clock_in, created_at, updated_at
		)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + sessionColumns + `
	`

	result, err := scanSession(q.QueryRow(ctx, query,
		s.UserID,
		s.ShiftID,
		s.ClockIn,
		s.ClockInLocationID,
		s.ClockInSSID,
		s.ClockInLatitude,
		s.ClockInLongitude,
		s.Status,
		s.AutoClockIn,
	))
	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return result, nil
}

// GetByID implements attendance.SessionRepository.
func (r *sessionRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE id = $1
	`

	return scanSession(q.QueryRow(ctx, query, id))
}

// GetOpenSession implements attendance.SessionRepository.
func (r *sessionRepositoryImpl) GetOpenSession(ctx context.Context, userID string) (*attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1 AND clock_out IS NULL
	`

	s, err := scanSession(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}

	return &s, nil
}

// Close implements attendance.SessionRepository. The clock_out IS NULL guard
// makes closing race-safe: whichever writer lands second affects zero rows
// and gets ErrSessionClosed.
func (r *sessionRepositoryImpl) Close(ctx context.Context, s attendance.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET clock_out = $2,
			clock_out_location_id = $3,
			clock_out_ssid = $4,
			clock_out_latitude = $5,
			clock_out_longitude = $6,
			work_minutes = $7,
			status = $8,
			notes = COALESCE($9, notes),
			auto_clock_out = $10,
			updated_at = NOW()
		WHERE id = $1 AND clock_out IS NULL
	`

	commandTag, err := q.Exec(ctx, query,
		s.ID,
		s.ClockOut,
		s.ClockOutLocationID,
		s.ClockOutSSID,
		s.ClockOutLatitude,
		s.ClockOutLongitude,
		s.WorkMinutes,
		s.Status,
		s.Notes,
		s.AutoClockOut,
	)
	if err != nil {
		return fmt.Errorf("failed to close attendance session: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrSessionClosed
	}

	return nil
}

// Update implements attendance.SessionRepository.
func (r *sessionRepositoryImpl) Update(ctx context.Context, s attendance.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET clock_in = $2,
			clock_out = $3,
			work_minutes = $4,
			status = $5,
			notes = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		s.ID,
		s.ClockIn,
		s.ClockOut,
		s.WorkMinutes,
		s.Status,
		s.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance session: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrSessionNotFound
	}

	return nil
}

// FindForShift implements attendance.SessionRepository.
func (r *sessionRepositoryImpl) FindForShift(ctx context.Context, shiftID string) (*attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE shift_id = $1
		ORDER BY clock_in ASC
		LIMIT 1
	`

	s, err := scanSession(q.QueryRow(ctx, query, shiftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session for shift: %w", err)
	}

	return &s, nil
}

// FindInWindow implements attendance.SessionRepository.
func (r *sessionRepositoryImpl) FindInWindow(ctx context.Context, userID, locationID string, from, to time.Time) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1
		  AND clock_in_location_id = $2
		  AND clock_in BETWEEN $3 AND $4
		ORDER BY clock_in ASC
	`

	rows, err := q.Query(ctx, query, userID, locationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions in window: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return sessions, nil
}

// ListStaleOpen implements attendance.SessionRepository. Uses the database
// clock for the age comparison.
func (r *sessionRepositoryImpl) ListStaleOpen(ctx context.Context, olderThanHours int) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			a.id, a.user_id, a.shift_id,
			a.clock_in, a.clock_in_location_id, a.clock_in_ssid, a.clock_in_latitude, a.clock_in_longitude,
			a.clock_out, a.clock_out_location_id, a.clock_out_ssid, a.clock_out_latitude, a.clock_out_longitude,
			a.work_minutes, a.status, a.notes, a.auto_clock_in, a.auto_clock_out,
			a.created_at, a.updated_at
		FROM attendance_sessions a
		JOIN shifts s ON s.id = a.shift_id
		WHERE a.clock_out IS NULL
		  AND s.end_time + make_interval(hours => $1) < NOW()
		ORDER BY a.clock_in ASC
	`

	rows, err := q.Query(ctx, query, olderThanHours)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale open sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return sessions, nil
}
