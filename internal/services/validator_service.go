package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// ProposedShift is a shift submitted for validation. ID is set when editing
// an existing shift so it is excluded from the overlap comparison set.
type ProposedShift struct {
	ID        string
	StaffID   string
	AreaID    string
	Date      time.Time
	StartTime string
	EndTime   string
}

// ValidationContext carries the state the validator checks a proposal
// against. The caller gathers it; the validator itself is stateless and
// side-effect-free.
type ValidationContext struct {
	Staff      *models.Staff            // resolved staff member, nil if unknown
	Area       *models.Area             // resolved area, nil if unknown
	WeekShifts []models.Shift           // same staff member's shifts in the proposal's week
	TimeOff    []models.TimeOffRequest  // approved requests for the staff member covering the date
}

// ValidatorService checks proposed shifts against scheduling rules
type ValidatorService struct{}

// NewValidatorService creates a new ValidatorService
func NewValidatorService() *ValidatorService {
	return &ValidatorService{}
}

// Validate checks a proposed shift. Structural rules (time ordering, grid
// resolution, resolvable active references) are never bypassed; when
// override is true every other rule is skipped. All violated rules are
// enumerated in the returned ValidationError, not just the first.
func (v *ValidatorService) Validate(p ProposedShift, ctx ValidationContext, override bool) error {
	if structural := v.checkStructural(p, ctx); len(structural) > 0 {
		return &models.ValidationError{Reasons: structural}
	}

	if override {
		return nil
	}

	var reasons []string
	reasons = append(reasons, v.checkOverlap(p, ctx)...)
	reasons = append(reasons, v.checkEligibility(ctx)...)
	reasons = append(reasons, v.checkTimeOff(ctx)...)
	reasons = append(reasons, v.checkShiftLength(p, ctx)...)
	reasons = append(reasons, v.checkRequiredDaysOff(p, ctx)...)
	reasons = append(reasons, v.checkFlexibleDaysOff(p, ctx)...)
	reasons = append(reasons, v.checkWeeklyLimit(p, ctx)...)

	if len(reasons) > 0 {
		return &models.ValidationError{Reasons: reasons}
	}

	return nil
}

func (v *ValidatorService) checkStructural(p ProposedShift, ctx ValidationContext) []string {
	var reasons []string

	start, startErr := models.ParseClock(p.StartTime)
	if startErr != nil {
		reasons = append(reasons, startErr.Error())
	}
	end, endErr := models.ParseClock(p.EndTime)
	if endErr != nil {
		reasons = append(reasons, endErr.Error())
	}
	if startErr == nil && endErr == nil {
		if start >= end {
			reasons = append(reasons, "start time must be before end time")
		}
		if start%15 != 0 || end%15 != 0 {
			reasons = append(reasons, "times must fall on 15-minute increments")
		}
	}

	if p.Date.IsZero() {
		reasons = append(reasons, "date is required")
	}

	if ctx.Staff == nil {
		reasons = append(reasons, "staff member not found")
	} else if !ctx.Staff.IsActive {
		reasons = append(reasons, fmt.Sprintf("%s is inactive and cannot be scheduled", ctx.Staff.Name))
	}

	if ctx.Area == nil {
		reasons = append(reasons, "area not found")
	}

	return reasons
}

func (v *ValidatorService) checkOverlap(p ProposedShift, ctx ValidationContext) []string {
	start, _ := models.ParseClock(p.StartTime)
	end, _ := models.ParseClock(p.EndTime)

	var reasons []string
	for _, existing := range ctx.WeekShifts {
		if existing.ID == p.ID {
			continue
		}
		if !existing.SameDate(p.Date) {
			continue
		}
		if existing.Overlaps(start, end) {
			reasons = append(reasons, fmt.Sprintf(
				"%s is already scheduled %s-%s in %s",
				ctx.Staff.Name, existing.StartTime, existing.EndTime, existing.AreaName,
			))
		}
	}
	return reasons
}

func (v *ValidatorService) checkEligibility(ctx ValidationContext) []string {
	if ctx.Staff.AllowsArea(ctx.Area.Name) {
		return nil
	}
	return []string{fmt.Sprintf(
		"%s can only work in: %s",
		ctx.Staff.Name, strings.Join(ctx.Staff.AllowedAreas, ", "),
	)}
}

func (v *ValidatorService) checkTimeOff(ctx ValidationContext) []string {
	if len(ctx.TimeOff) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("%s has approved time-off on this date", ctx.Staff.Name)}
}

func (v *ValidatorService) checkShiftLength(p ProposedShift, ctx ValidationContext) []string {
	start, _ := models.ParseClock(p.StartTime)
	end, _ := models.ParseClock(p.EndTime)
	duration := float64(end-start) / 60.0

	if duration == float64(ctx.Staff.ShiftLength) {
		return nil
	}
	return []string{fmt.Sprintf(
		"%s works %d-hour shifts. This shift is %g hours",
		ctx.Staff.Name, ctx.Staff.ShiftLength, duration,
	)}
}

func (v *ValidatorService) checkRequiredDaysOff(p ProposedShift, ctx ValidationContext) []string {
	weekday := p.Date.Weekday().String()
	if !ctx.Staff.MustBeOff(weekday) {
		return nil
	}
	return []string{fmt.Sprintf("%s must be off on %ss", ctx.Staff.Name, weekday)}
}

// checkFlexibleDaysOff enforces that at least one of the staff member's
// flexible days remains unworked in the proposal's week.
func (v *ValidatorService) checkFlexibleDaysOff(p ProposedShift, ctx ValidationContext) []string {
	flexible := ctx.Staff.FlexibleDaysOff
	if len(flexible) == 0 {
		return nil
	}

	weekday := p.Date.Weekday().String()
	proposed := false
	for _, d := range flexible {
		if d == weekday {
			proposed = true
			break
		}
	}
	if !proposed {
		return nil
	}

	monday := WeekStart(p.Date)
	for _, other := range flexible {
		if other == weekday {
			continue
		}
		otherDate, ok := weekdayDate(monday, other)
		if !ok {
			continue
		}
		if !v.worked(ctx.WeekShifts, p.ID, otherDate) {
			// another flexible day is still free
			return nil
		}
	}

	return []string{fmt.Sprintf(
		"%s must have at least one of these days off: %s",
		ctx.Staff.Name, strings.Join(flexible, " or "),
	)}
}

// checkWeeklyLimit enforces the weekday off for 10-hour, 4-day staff.
func (v *ValidatorService) checkWeeklyLimit(p ProposedShift, ctx ValidationContext) []string {
	if ctx.Staff.ShiftLength != 10 || ctx.Staff.DaysPerWeek != 4 {
		return nil
	}

	dates := map[string]bool{p.Date.Format(models.DateLayout): true}
	for _, shift := range ctx.WeekShifts {
		if shift.ID == p.ID {
			continue
		}
		dates[shift.Date.Format(models.DateLayout)] = true
	}

	if len(dates) <= 4 {
		return nil
	}
	return []string{fmt.Sprintf(
		"%s works 4 days/week and must have at least 1 day off Mon-Fri. This would be their 5th day",
		ctx.Staff.Name,
	)}
}

func (v *ValidatorService) worked(shifts []models.Shift, excludeID string, date time.Time) bool {
	for _, shift := range shifts {
		if shift.ID == excludeID {
			continue
		}
		if shift.SameDate(date) {
			return true
		}
	}
	return false
}

// WeekStart returns the Monday of the week containing the given date.
func WeekStart(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	monday := date.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}

// WeekEnd returns the Sunday of the week containing the given date.
func WeekEnd(date time.Time) time.Time {
	return WeekStart(date).AddDate(0, 0, 6)
}

var weekdayOffsets = map[string]int{
	"Monday":    0,
	"Tuesday":   1,
	"Wednesday": 2,
	"Thursday":  3,
	"Friday":    4,
	"Saturday":  5,
	"Sunday":    6,
}

func weekdayDate(monday time.Time, weekday string) (time.Time, bool) {
	offset, ok := weekdayOffsets[weekday]
	if !ok {
		return time.Time{}, false
	}
	return monday.AddDate(0, 0, offset), true
}
