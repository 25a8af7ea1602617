package models

import (
	"fmt"
	"time"
)

// ClockLayout is the wire format for shift start and end times.
const ClockLayout = "15:04"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Shift represents one staff member working one area on one date.
// Times are time-of-day values at 15-minute resolution, stored as "HH:MM"
// strings. A shift is identified by its ID alone; a staff member may hold
// several non-overlapping shifts on the same date.
type Shift struct {
	ID        string    `json:"id" db:"id"`
	StaffID   string    `json:"staff_id" db:"staff_id"`
	AreaID    string    `json:"area_id" db:"area_id"`
	Date      time.Time `json:"date" db:"date"`
	StartTime string    `json:"start_time" db:"start_time"` // "HH:MM"
	EndTime   string    `json:"end_time" db:"end_time"`     // "HH:MM"
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Enriched display fields populated by list queries
	StaffName string    `json:"staff_name,omitempty" db:"staff_name"`
	StaffRole StaffRole `json:"staff_role,omitempty" db:"staff_role"`
	AreaName  string    `json:"area_name,omitempty" db:"area_name"`
}

// ParseClock converts an "HH:MM" time-of-day string to minutes since
// midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Overlaps reports whether the [start, end) interval of this shift
// intersects the given interval in minutes since midnight.
func (s *Shift) Overlaps(startMin, endMin int) bool {
	myStart, err := ParseClock(s.StartTime)
	if err != nil {
		return false
	}
	myEnd, err := ParseClock(s.EndTime)
	if err != nil {
		return false
	}
	return myStart < endMin && startMin < myEnd
}

// DurationHours returns the shift length in hours.
func (s *Shift) DurationHours() float64 {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return 0
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return 0
	}
	return float64(end-start) / 60.0
}

// SameDate reports whether the shift falls on the given calendar date.
func (s *Shift) SameDate(date time.Time) bool {
	return s.Date.Format(DateLayout) == date.Format(DateLayout)
}
