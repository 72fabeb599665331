package missedshift

import "time"

// Explanation tracks a missed shift through the staff-explanation /
// admin-review workflow. The only legal path is
// unexplained → pending_review → approved|rejected.
type Explanation struct {
	ID          string
	ShiftID     string
	UserID      string
	LocationID  string
	ShiftDate   time.Time
	Explanation *string
	Status      Status
	AdminNotes  *string
	ReviewedBy  *string
	ReviewedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Status string

const (
	StatusUnexplained   Status = "unexplained"
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
)

var StatusValues = []string{
	string(StatusUnexplained),
	string(StatusPendingReview),
	string(StatusApproved),
	string(StatusRejected),
}

// Terminal reports whether the explanation has reached a final verdict.
func (e Explanation) Terminal() bool {
	return e.Status == StatusApproved || e.Status == StatusRejected
}
