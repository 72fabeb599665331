package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/attendance"
	"github.com/shiftwise/shiftwise-backend-go/internal/domain/shift"
)

// staleSessionAgeHours is how long past its shift's end an open session may
// linger before the auto-close job claims it.
const staleSessionAgeHours = 2

type AttendanceJobs struct {
	sessionRepo attendance.SessionRepository
	shiftRepo   shift.ShiftRepository
}

func NewAttendanceJobs(
	sessionRepo attendance.SessionRepository,
	shiftRepo shift.ShiftRepository,
) *AttendanceJobs {
	return &AttendanceJobs{
		sessionRepo: sessionRepo,
		shiftRepo:   shiftRepo,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_sessions", 1*time.Hour, j.AutoCloseStaleSessions)
}

// AutoCloseStaleSessions closes open sessions whose shift ended hours ago.
// These are users who never disconnected in a detectable way (device off,
// wifi left on at home). The session closes at the shift's end time, not at
// job time, so the recorded hours match the schedule.
func (j *AttendanceJobs) AutoCloseStaleSessions(ctx context.Context) error {
	staleSessions, err := j.sessionRepo.ListStaleOpen(ctx, staleSessionAgeHours)
	if err != nil {
		return fmt.Errorf("failed to list stale sessions: %w", err)
	}

	if len(staleSessions) == 0 {
		return nil
	}

	closedCount := 0
	for _, session := range staleSessions {
		if session.ShiftID == nil {
			continue
		}

		sh, err := j.shiftRepo.GetByID(ctx, *session.ShiftID)
		if err != nil {
			slog.Error("Cron: failed to get shift for stale session",
				"session_id", session.ID, "shift_id", *session.ShiftID, "error", err)
			continue
		}

		end := sh.EndTime
		workMinutes := int(end.Sub(session.ClockIn).Minutes())

		session.ClockOut = &end
		session.ClockOutLocationID = session.ClockInLocationID
		session.WorkMinutes = &workMinutes
		session.Status = attendance.StatusClockedOut
		session.AutoClockOut = true

		if err := j.sessionRepo.Close(ctx, session); err != nil {
			slog.Error("Cron: failed to close stale session", "session_id", session.ID, "error", err)
			continue
		}
		closedCount++
	}

	slog.Info("Cron: auto-closed stale sessions", "found", len(staleSessions), "closed", closedCount)
	return nil
}
