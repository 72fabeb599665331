package attendance

import "time"

// Session is one attendance record: a clock-in, optionally closed by a
// clock-out. At most one session per user may be open (ClockOut == nil).
type Session struct {
	ID                 string
	UserID             string
	ShiftID            *string
	ClockIn            time.Time
	ClockInLocationID  *string
	ClockInSSID        *string
	ClockInLatitude    *float64
	ClockInLongitude   *float64
	ClockOut           *time.Time
	ClockOutLocationID *string
	ClockOutSSID       *string
	ClockOutLatitude   *float64
	ClockOutLongitude  *float64
	WorkMinutes        *int
	Status             Status
	Notes              *string
	AutoClockIn        bool
	AutoClockOut       bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Status string

const (
	StatusClockedIn  Status = "clocked_in"
	StatusClockedOut Status = "clocked_out"
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
)

var StatusValues = []string{
	string(StatusClockedIn),
	string(StatusClockedOut),
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
}

// Open reports whether the session has not been closed yet.
func (s Session) Open() bool {
	return s.ClockOut == nil
}
