// Package oracle defines the contract with the external schedule
// generator and provides two implementations: an OpenAI-backed gateway and
// a deterministic rule-based generator for development. The engine treats
// the generator as an opaque oracle: candidates it returns are untrusted
// input and are re-validated before being held as a draft.
package oracle

import "context"

// Mode selects the generation intent
type Mode string

const (
	// ModeFull replaces the entire week
	ModeFull Mode = "full"
	// ModeFillEmpty only proposes shifts for currently empty area/date cells
	ModeFillEmpty Mode = "fill_empty"
)

// IsValid reports whether the mode is a known generation mode
func (m Mode) IsValid() bool {
	return m == ModeFull || m == ModeFillEmpty
}

// StaffInfo describes one schedulable staff member to the generator
type StaffInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	ShiftLength     int      `json:"shift_length"`
	DaysPerWeek     int      `json:"days_per_week"`
	StartTime       string   `json:"start_time,omitempty"`
	IsPerDiem       bool     `json:"is_per_diem"`
	AllowedAreas    []string `json:"allowed_areas,omitempty"`
	RequiredDaysOff []string `json:"required_days_off,omitempty"`
	FlexibleDaysOff []string `json:"flexible_days_off,omitempty"`
}

// AreaInfo describes one coverage area and its staffing targets
type AreaInfo struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	RequiredRNCount        int    `json:"required_rn_count"`
	RequiredTechCount      int    `json:"required_tech_count"`
	RequiredScopeTechCount int    `json:"required_scope_tech_count"`
}

// TimeOffInfo describes one approved absence intersecting the week
type TimeOffInfo struct {
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ExistingShift describes one committed shift, supplied in fill-empty mode
// so the generator does not double-book occupied cells.
type ExistingShift struct {
	StaffID   string `json:"staff_id"`
	AreaID    string `json:"area_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Request is the full generation input. Dates use the "2006-01-02" layout
// and times "15:04".
type Request struct {
	WeekStart string          `json:"week_start"`
	Mode      Mode            `json:"mode"`
	Staff     []StaffInfo     `json:"staff"`
	Areas     []AreaInfo      `json:"areas"`
	TimeOff   []TimeOffInfo   `json:"time_off"`
	Existing  []ExistingShift `json:"existing_shifts"`
}

// Candidate is one proposed shift returned by the generator
type Candidate struct {
	StaffID   string `json:"staff_id"`
	AreaID    string `json:"area_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Gateway generates candidate shifts for a week. Implementations must
// honor context cancellation; generation may take tens of seconds.
type Gateway interface {
	GenerateCandidates(ctx context.Context, req Request) ([]Candidate, error)

	// GetName returns the name of the gateway implementation
	GetName() string
}
