package missedshift

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/attendance"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/missedshift"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/shift"
)

// Detector scans for booked shifts that ended without any attendance and
// creates unexplained records for them. It runs on the cron scheduler and is
// re-entrant safe: a shift that already has an explanation record is skipped,
// so overlapping runs cannot duplicate work.
type Detector struct {
	shiftRepo       shift.ShiftRepository
	sessionRepo     attendance.SessionRepository
	explanationRepo missedshift.ExplanationRepository
}

func NewDetector(
	shiftRepo shift.ShiftRepository,
	sessionRepo attendance.SessionRepository,
	explanationRepo missedshift.ExplanationRepository,
) *Detector {
	return &Detector{
		shiftRepo:       shiftRepo,
		sessionRepo:     sessionRepo,
		explanationRepo: explanationRepo,
	}
}

// Run executes one detection sweep. Used as the cron job body.
func (d *Detector) Run(ctx context.Context) error {
	shifts, err := d.shiftRepo.ListEndedUnattended(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ended shifts: %w", err)
	}

	created := 0
	for _, sh := range shifts {
		flagged, err := d.evaluate(ctx, sh)
		if err != nil {
			slog.Error("Failed to evaluate shift for missed attendance", "shift_id", sh.ID, "error", err)
			continue
		}
		if flagged {
			created++
		}
	}

	if created > 0 {
		slog.Info("Missed shift detection completed", "checked", len(shifts), "flagged", created)
	}
	return nil
}

// RunForUser sweeps only the shifts assigned to one user. Called when a user
// fetches their missed shifts, so a record created between cron runs still
// shows up immediately.
func (d *Detector) RunForUser(ctx context.Context, userID string) error {
	shifts, err := d.shiftRepo.ListEndedUnattended(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ended shifts: %w", err)
	}

	for _, sh := range shifts {
		if sh.AssignedTo == nil || *sh.AssignedTo != userID {
			continue
		}
		if _, err := d.evaluate(ctx, sh); err != nil {
			return err
		}
	}
	return nil
}

// evaluate decides whether one ended shift was missed and, if so, creates its
// unexplained record. Returns true when a record was created.
func (d *Detector) evaluate(ctx context.Context, sh shift.Shift) (bool, error) {
	if sh.AssignedTo == nil {
		return false, nil
	}

	existing, err := d.explanationRepo.GetByShiftID(ctx, sh.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check existing explanation: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	attended, err := d.attended(ctx, sh)
	if err != nil {
		return false, err
	}
	if attended {
		return false, nil
	}

	_, err = d.explanationRepo.Create(ctx, missedshift.Explanation{
		ShiftID:    sh.ID,
		UserID:     *sh.AssignedTo,
		LocationID: sh.LocationID,
		ShiftDate:  sh.StartTime.Truncate(24 * time.Hour),
		Status:     missedshift.StatusUnexplained,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create explanation record: %w", err)
	}

	slog.Info("Missed shift flagged", "shift_id", sh.ID, "user_id", *sh.AssignedTo)
	return true, nil
}

// attended reports whether any session covers the shift. The shift link is
// authoritative when present; sessions opened without one (manual clock-ins
// that predate shift linking) are matched by clock-in window and location.
func (d *Detector) attended(ctx context.Context, sh shift.Shift) (bool, error) {
	linked, err := d.sessionRepo.FindForShift(ctx, sh.ID)
	if err != nil {
		return false, fmt.Errorf("failed to find session for shift: %w", err)
	}
	if linked != nil {
		return true, nil
	}

	grace := 30 * time.Minute
	sessions, err := d.sessionRepo.FindInWindow(ctx, *sh.AssignedTo, sh.LocationID,
		sh.StartTime.Add(-grace), sh.EndTime)
	if err != nil {
		return false, fmt.Errorf("failed to find sessions in shift window: %w", err)
	}
	return len(sessions) > 0, nil
}
