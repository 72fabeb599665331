package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/missedshift"
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/database"
)

type explanationRepositoryImpl struct {
	db *database.DB
}

func NewExplanationRepository(db *database.DB) missedshift.ExplanationRepository {
	return &explanationRepositoryImpl{db: db}
}

const explanationColumns = `
	id, shift_id, user_id, location_id, shift_date,
	explanation, status, admin_notes, reviewed_by, reviewed_at,
	created_at, updated_at
`

func scanExplanation(row interface{ Scan(dest ...any) error }) (missedshift.Explanation, error) {
	var e missedshift.Explanation
	err := row.Scan(
		&e.ID,
		&e.ShiftID,
		&e.UserID,
		&e.LocationID,
		&e.ShiftDate,
		&e.Explanation,
		&e.Status,
		&e.AdminNotes,
		&e.ReviewedBy,
		&e.ReviewedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// Create implements missedshift.ExplanationRepository. The unique constraint
// on shift_id means concurrent detector runs collapse into one record.
func (r *explanationRepositoryImpl) Create(ctx context.Context, e missedshift.Explanation) (missedshift.Explanation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO missed_shift_explanations (
			id, shift_id, user_id, location_id, shift_date, status, created_at, updated_at
		)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + explanationColumns + `
	`

	result, err := scanExplanation(q.QueryRow(ctx, query,
		e.ShiftID,
		e.UserID,
		e.LocationID,
		e.ShiftDate,
		e.Status,
	))
	if err != nil {
		return missedshift.Explanation{}, fmt.Errorf("failed to create explanation record: %w", err)
	}

	return result, nil
}

// GetByID implements missedshift.ExplanationRepository.
func (r *explanationRepositoryImpl) GetByID(ctx context.Context, id string) (missedshift.Explanation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + explanationColumns + `
		FROM missed_shift_explanations
		WHERE id = $1
	`

	return scanExplanation(q.QueryRow(ctx, query, id))
}

// GetByShiftID implements missedshift.ExplanationRepository.
func (r *explanationRepositoryImpl) GetByShiftID(ctx context.Context, shiftID string) (*missedshift.Explanation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + explanationColumns + `
		FROM missed_shift_explanations
		WHERE shift_id = $1
	`

	e, err := scanExplanation(q.QueryRow(ctx, query, shiftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get explanation by shift: %w", err)
	}

	return &e, nil
}

// ListByUser implements missedshift.ExplanationRepository.
func (r *explanationRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]missedshift.Explanation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + explanationColumns + `
		FROM missed_shift_explanations
		WHERE user_id = $1
		ORDER BY shift_date DESC, created_at DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list explanation records: %w", err)
	}
	defer rows.Close()

	var records []missedshift.Explanation
	for rows.Next() {
		e, err := scanExplanation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan explanation record: %w", err)
		}
		records = append(records, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// Update implements missedshift.ExplanationRepository.
func (r *explanationRepositoryImpl) Update(ctx context.Context, e missedshift.Explanation) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE missed_shift_explanations
		SET explanation = $2,
			status = $3,
			admin_notes = $4,
			reviewed_by = $5,
			reviewed_at = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		e.ID,
		e.Explanation,
		e.Status,
		e.AdminNotes,
		e.ReviewedBy,
		e.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update explanation record: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return missedshift.ErrExplanationNotFound
	}

	return nil
}
