package oracle

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// RuleGateway is a deterministic, rule-based schedule generator used in
// development and as a fallback when no OpenAI credentials are configured.
// It walks each weekday and greedily fills every area's role requirements
// with the least-loaded eligible staff member, ties broken by name.
type RuleGateway struct{}

// NewRuleGateway creates a new RuleGateway
func NewRuleGateway() *RuleGateway {
	return &RuleGateway{}
}

// GetName returns the gateway name
func (g *RuleGateway) GetName() string {
	return "rule"
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Default start times per role when a staff member has no preferred start
var defaultStarts = map[string]string{
	"RN":         "07:00",
	"GI_Tech":    "07:00",
	"Scope_Tech": "07:30",
}

// GenerateCandidates produces a candidate week. The same request always
// yields the same candidate list.
func (g *RuleGateway) GenerateCandidates(ctx context.Context, req Request) ([]Candidate, error) {
	weekStart, err := time.Parse(dateLayout, req.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("invalid week start %q: %w", req.WeekStart, err)
	}

	roster := make([]StaffInfo, len(req.Staff))
	copy(roster, req.Staff)
	sort.Slice(roster, func(i, j int) bool { return roster[i].Name < roster[j].Name })

	timeOffByStaff := make(map[string][]TimeOffInfo)
	for _, t := range req.TimeOff {
		timeOffByStaff[t.StaffID] = append(timeOffByStaff[t.StaffID], t)
	}

	occupied := make(map[string]bool)
	for _, shift := range req.Existing {
		occupied[shift.AreaID+"|"+shift.Date] = true
	}

	assignedDates := make(map[string]map[string]bool) // staffID -> dates worked
	workedDays := func(id string) int { return len(assignedDates[id]) }

	var candidates []Candidate
	for dayOffset := 0; dayOffset < 5; dayOffset++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		day := weekStart.AddDate(0, 0, dayOffset)
		date := day.Format(dateLayout)
		weekday := day.Weekday().String()

		for _, area := range req.Areas {
			if req.Mode == ModeFillEmpty && occupied[area.ID+"|"+date] {
				continue
			}

			var slots []string
			for i := 0; i < area.RequiredRNCount; i++ {
				slots = append(slots, "RN")
			}
			for i := 0; i < area.RequiredTechCount; i++ {
				slots = append(slots, "GI_Tech")
			}
			for i := 0; i < area.RequiredScopeTechCount; i++ {
				slots = append(slots, "Scope_Tech")
			}

			for _, role := range slots {
				best := g.pick(roster, role, area, date, weekday, timeOffByStaff, assignedDates, workedDays)
				if best == nil {
					continue
				}

				start := best.StartTime
				if start == "" {
					start = defaultStarts[role]
				}
				end, err := addHours(start, best.ShiftLength)
				if err != nil {
					continue
				}

				candidates = append(candidates, Candidate{
					StaffID:   best.ID,
					AreaID:    area.ID,
					Date:      date,
					StartTime: start,
					EndTime:   end,
				})

				if assignedDates[best.ID] == nil {
					assignedDates[best.ID] = make(map[string]bool)
				}
				assignedDates[best.ID][date] = true
			}
		}
	}

	return candidates, nil
}

// pick selects the least-loaded eligible staff member for a role slot
func (g *RuleGateway) pick(
	roster []StaffInfo,
	role string,
	area AreaInfo,
	date, weekday string,
	timeOffByStaff map[string][]TimeOffInfo,
	assignedDates map[string]map[string]bool,
	workedDays func(string) int,
) *StaffInfo {
	var best *StaffInfo
	for i := range roster {
		staff := &roster[i]
		if staff.Role != role {
			continue
		}
		if assignedDates[staff.ID][date] {
			continue
		}
		if workedDays(staff.ID) >= weeklyCap(staff) {
			continue
		}
		if !allowsArea(staff, area.Name) {
			continue
		}
		if dayOffRequired(staff, weekday) {
			continue
		}
		if onTimeOff(timeOffByStaff[staff.ID], date) {
			continue
		}

		if best == nil || workedDays(staff.ID) < workedDays(best.ID) {
			best = staff
		}
	}
	return best
}

func weeklyCap(staff *StaffInfo) int {
	limit := staff.DaysPerWeek
	if staff.ShiftLength == 10 && limit > 4 {
		limit = 4
	}
	return limit
}

func allowsArea(staff *StaffInfo, areaName string) bool {
	if len(staff.AllowedAreas) == 0 {
		return true
	}
	for _, a := range staff.AllowedAreas {
		if a == areaName {
			return true
		}
	}
	return false
}

func dayOffRequired(staff *StaffInfo, weekday string) bool {
	for _, d := range staff.RequiredDaysOff {
		if d == weekday {
			return true
		}
	}
	return false
}

func onTimeOff(requests []TimeOffInfo, date string) bool {
	for _, t := range requests {
		if t.StartDate <= date && date <= t.EndDate {
			return true
		}
	}
	return false
}

func addHours(start string, hours int) (string, error) {
	t, err := time.Parse(clockLayout, start)
	if err != nil {
		return "", fmt.Errorf("invalid start time %q: %w", start, err)
	}
	return t.Add(time.Duration(hours) * time.Hour).Format(clockLayout), nil
}
