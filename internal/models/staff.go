package models

import "time"

// StaffRole represents the clinical role of a staff member
type StaffRole string

const (
	RoleRN        StaffRole = "RN"
	RoleGITech    StaffRole = "GI_Tech"
	RoleScopeTech StaffRole = "Scope_Tech"
)

// ValidRoles lists every accepted staff role
var ValidRoles = []StaffRole{RoleRN, RoleGITech, RoleScopeTech}

// IsValid reports whether the role is one of the known clinical roles
func (r StaffRole) IsValid() bool {
	for _, role := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Staff represents a schedulable staff member.
// Staff records are reference data for the engine: they are consulted for
// eligibility checks but never mutated by scheduling operations.
type Staff struct {
	ID              string      `json:"id" db:"id"`
	Name            string      `json:"name" db:"name"`
	Role            StaffRole   `json:"role" db:"role"`
	ShiftLength     int         `json:"shift_length" db:"shift_length"`    // contracted hours per shift (8 or 10)
	DaysPerWeek     int         `json:"days_per_week" db:"days_per_week"`  // contracted days per week (4 or 5)
	StartTime       *string     `json:"start_time,omitempty" db:"start_time"` // preferred start, "HH:MM"
	IsPerDiem       bool        `json:"is_per_diem" db:"is_per_diem"`
	AllowedAreas    StringArray `json:"allowed_areas" db:"allowed_areas"`         // empty = any area
	RequiredDaysOff StringArray `json:"required_days_off" db:"required_days_off"` // weekday names, never scheduled
	FlexibleDaysOff StringArray `json:"flexible_days_off" db:"flexible_days_off"` // at least one must be unworked per week
	IsActive        bool        `json:"is_active" db:"is_active"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// AllowsArea reports whether the staff member may work in the named area.
// An empty allowed-areas set means any area.
func (s *Staff) AllowsArea(areaName string) bool {
	if len(s.AllowedAreas) == 0 {
		return true
	}
	for _, a := range s.AllowedAreas {
		if a == areaName {
			return true
		}
	}
	return false
}

// MustBeOff reports whether the weekday is one of the staff member's
// required days off.
func (s *Staff) MustBeOff(weekday string) bool {
	for _, d := range s.RequiredDaysOff {
		if d == weekday {
			return true
		}
	}
	return false
}

// MaxWeekdays returns the maximum number of weekdays this staff member may
// be scheduled in a single week.
func (s *Staff) MaxWeekdays() int {
	return s.DaysPerWeek
}
