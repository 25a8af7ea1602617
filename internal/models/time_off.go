package models

import "time"

// TimeOffStatus represents the decision state of a time-off request
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffDenied   TimeOffStatus = "denied"
)

// TimeOffRequest represents a staff-submitted request to be unavailable for
// a date range. Status moves from pending to approved or denied exactly
// once; decided requests are terminal.
type TimeOffRequest struct {
	ID        string        `json:"id" db:"id"`
	StaffID   string        `json:"staff_id" db:"staff_id"`
	StartDate time.Time     `json:"start_date" db:"start_date"`
	EndDate   time.Time     `json:"end_date" db:"end_date"`
	Reason    *string       `json:"reason,omitempty" db:"reason"`
	Status    TimeOffStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`

	StaffName string `json:"staff_name,omitempty" db:"staff_name"`
}

// Covers reports whether the given date falls inside the request's range
// (inclusive on both ends).
func (r *TimeOffRequest) Covers(date time.Time) bool {
	d := date.Format(DateLayout)
	return r.StartDate.Format(DateLayout) <= d && d <= r.EndDate.Format(DateLayout)
}
