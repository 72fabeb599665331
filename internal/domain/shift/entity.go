package shift

import "time"

type Shift struct {
	ID         string
	LocationID string
	StartTime  time.Time
	EndTime    time.Time
	AssignedTo *string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBooked    Status = "BOOKED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var StatusValues = []string{
	string(StatusAvailable),
	string(StatusBooked),
	string(StatusCompleted),
	string(StatusCancelled),
}

// Overlaps reports whether two shifts occupy intersecting [start, end) windows.
func (s Shift) Overlaps(other Shift) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}

// Slot is a generated shift candidate that has not been persisted yet.
type Slot struct {
	LocationID string
	StartTime  time.Time
	EndTime    time.Time
}
