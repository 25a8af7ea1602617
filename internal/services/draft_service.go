package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
	"github.com/medoffice/shift-scheduler-backend/pkg/oracle"
)

// DraftShift is one generated shift held in the draft. Warnings carry
// soft-rule violations found during re-validation; they do not block the
// draft but are surfaced so a planner can review them before applying.
type DraftShift struct {
	Shift    models.Shift `json:"shift"`
	Warnings []string     `json:"warnings,omitempty"`
}

// DraftSchedule is a generated candidate week awaiting an apply or discard
// decision. It lives only in memory; nothing touches the committed
// schedule until Apply.
type DraftSchedule struct {
	WeekStart   time.Time    `json:"week_start"`
	Mode        oracle.Mode  `json:"mode"`
	GeneratedBy string       `json:"generated_by"`
	Shifts      []DraftShift `json:"shifts"`
	CreatedAt   time.Time    `json:"created_at"`
}

// DraftService orchestrates draft generation against the schedule
// generator. At most one draft exists at a time; a second generation
// request while one is pending or in flight is rejected rather than
// queued.
type DraftService struct {
	shifts    ShiftStore
	staff     StaffStore
	areas     AreaStore
	timeOff   TimeOffStore
	validator *ValidatorService
	schedule  *ScheduleService
	gateway   oracle.Gateway
	logger    *logrus.Logger

	mu         sync.Mutex
	draft      *DraftSchedule
	generating bool
}

// NewDraftService creates a new DraftService
func NewDraftService(
	shifts ShiftStore,
	staff StaffStore,
	areas AreaStore,
	timeOff TimeOffStore,
	validator *ValidatorService,
	schedule *ScheduleService,
	gateway oracle.Gateway,
	logger *logrus.Logger,
) *DraftService {
	return &DraftService{
		shifts:    shifts,
		staff:     staff,
		areas:     areas,
		timeOff:   timeOff,
		validator: validator,
		schedule:  schedule,
		gateway:   gateway,
		logger:    logger,
	}
}

// GenerateDraft asks the generator for a candidate week and holds the
// result as the active draft. Every returned candidate is re-validated:
// a structurally broken candidate rejects the whole draft, while soft-rule
// violations are kept as per-shift warnings. A generation failure or a
// cancelled context leaves no draft behind.
func (s *DraftService) GenerateDraft(ctx context.Context, weekStart time.Time, mode oracle.Mode) (*DraftSchedule, error) {
	if !mode.IsValid() {
		return nil, &models.ValidationError{Reasons: []string{fmt.Sprintf("unknown generation mode %q", mode)}}
	}

	s.mu.Lock()
	if s.generating || s.draft != nil {
		s.mu.Unlock()
		return nil, models.ErrDraftActive
	}
	s.generating = true
	s.mu.Unlock()

	draft, err := s.generate(ctx, weekStart, mode)

	s.mu.Lock()
	s.generating = false
	if err == nil {
		s.draft = draft
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"week_start": draft.WeekStart.Format(models.DateLayout),
		"mode":       string(draft.Mode),
		"generator":  draft.GeneratedBy,
		"shifts":     len(draft.Shifts),
	}).Info("Generated draft schedule")

	return draft, nil
}

func (s *DraftService) generate(ctx context.Context, weekStart time.Time, mode oracle.Mode) (*DraftSchedule, error) {
	windowStart := WeekStart(weekStart)
	windowEnd := WeekEnd(weekStart)

	existing, err := s.shifts.ListBetween(windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	roster, err := s.staff.ListActive()
	if err != nil {
		return nil, err
	}
	areaList, err := s.areas.List()
	if err != nil {
		return nil, err
	}
	timeOff, err := s.timeOff.ListApprovedBetween(windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	req := buildOracleRequest(windowStart, mode, roster, areaList, timeOff, existing)

	candidates, err := s.gateway.GenerateCandidates(ctx, req)
	if err != nil {
		return nil, &models.OracleError{Err: err}
	}

	shifts, err := s.reviewCandidates(candidates, mode, roster, areaList, timeOff, existing, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	return &DraftSchedule{
		WeekStart:   windowStart,
		Mode:        mode,
		GeneratedBy: s.gateway.GetName(),
		Shifts:      shifts,
		CreatedAt:   time.Now(),
	}, nil
}

// reviewCandidates re-validates generator output. Structural failures
// (unparseable fields, unknown staff or areas, inverted times) reject the
// whole batch; soft-rule failures become warnings on the kept shift. In
// full mode candidates are checked only against each other, since applying
// with a cleared week removes the committed shifts they would otherwise
// collide with.
func (s *DraftService) reviewCandidates(
	candidates []oracle.Candidate,
	mode oracle.Mode,
	roster []models.Staff,
	areaList []models.Area,
	timeOff []models.TimeOffRequest,
	existing []models.Shift,
	windowStart, windowEnd time.Time,
) ([]DraftShift, error) {
	staffByID := make(map[string]*models.Staff, len(roster))
	for i := range roster {
		staffByID[roster[i].ID] = &roster[i]
	}
	areaByID := make(map[string]*models.Area, len(areaList))
	for i := range areaList {
		areaByID[areaList[i].ID] = &areaList[i]
	}

	weekShiftsByStaff := make(map[string][]models.Shift)
	if mode == oracle.ModeFillEmpty {
		for _, shift := range existing {
			weekShiftsByStaff[shift.StaffID] = append(weekShiftsByStaff[shift.StaffID], shift)
		}
	}

	shifts := make([]DraftShift, 0, len(candidates))
	for i, cand := range candidates {
		date, err := time.Parse(models.DateLayout, cand.Date)
		if err != nil {
			return nil, &models.OracleError{Err: fmt.Errorf("candidate %d has unparseable date %q", i, cand.Date)}
		}
		if date.Before(windowStart) || date.After(windowEnd) {
			return nil, &models.OracleError{Err: fmt.Errorf("candidate %d date %s falls outside the requested week", i, cand.Date)}
		}

		staff := staffByID[cand.StaffID]
		area := areaByID[cand.AreaID]
		proposed := ProposedShift{
			StaffID:   cand.StaffID,
			AreaID:    cand.AreaID,
			Date:      date,
			StartTime: cand.StartTime,
			EndTime:   cand.EndTime,
		}
		vctx := ValidationContext{
			Staff:      staff,
			Area:       area,
			WeekShifts: weekShiftsByStaff[cand.StaffID],
			TimeOff:    approvedFor(timeOff, cand.StaffID, date),
		}

		if err := s.validator.Validate(proposed, vctx, true); err != nil {
			return nil, &models.OracleError{Err: fmt.Errorf("candidate %d is malformed: %v", i, err)}
		}

		draftShift := DraftShift{Shift: models.Shift{
			StaffID:   cand.StaffID,
			AreaID:    cand.AreaID,
			Date:      date,
			StartTime: cand.StartTime,
			EndTime:   cand.EndTime,
		}}
		if staff != nil {
			draftShift.Shift.StaffName = staff.Name
			draftShift.Shift.StaffRole = staff.Role
		}
		if area != nil {
			draftShift.Shift.AreaName = area.Name
		}

		if err := s.validator.Validate(proposed, vctx, false); err != nil {
			if verr, ok := err.(*models.ValidationError); ok {
				draftShift.Warnings = verr.Reasons
			} else {
				draftShift.Warnings = []string{err.Error()}
			}
		}

		weekShiftsByStaff[cand.StaffID] = append(weekShiftsByStaff[cand.StaffID], draftShift.Shift)
		shifts = append(shifts, draftShift)
	}

	return shifts, nil
}

// GetDraft returns the active draft
func (s *DraftService) GetDraft() (*DraftSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil, models.ErrNoDraft
	}
	return s.draft, nil
}

// PreviewCoverage evaluates coverage for the draft week as it would look
// after an apply. clearExisting mirrors the flag the caller intends to
// apply with: an additive apply keeps the committed shifts in the grid,
// a clearing apply previews the draft alone.
func (s *DraftService) PreviewCoverage(clearExisting bool) ([]models.CellCoverage, error) {
	s.mu.Lock()
	draft := s.draft
	s.mu.Unlock()
	if draft == nil {
		return nil, models.ErrNoDraft
	}

	windowStart := draft.WeekStart
	windowEnd := WeekEnd(draft.WeekStart)

	var combined []models.Shift
	if !clearExisting {
		committed, err := s.shifts.ListBetween(windowStart, windowEnd)
		if err != nil {
			return nil, err
		}
		combined = append(combined, committed...)
	}
	for _, ds := range draft.Shifts {
		combined = append(combined, ds.Shift)
	}

	roster, err := s.staff.List()
	if err != nil {
		return nil, err
	}
	rolesByStaff := make(map[string]models.StaffRole, len(roster))
	for _, st := range roster {
		rolesByStaff[st.ID] = st.Role
	}

	areaList, err := s.areas.List()
	if err != nil {
		return nil, err
	}

	byCell := make(map[string][]models.Shift)
	for _, shift := range combined {
		key := cellKey(shift.AreaID, shift.Date)
		byCell[key] = append(byCell[key], shift)
	}

	var cells []models.CellCoverage
	for i := range areaList {
		area := &areaList[i]
		for d := 0; d < 7; d++ {
			date := windowStart.AddDate(0, 0, d)
			cellShifts := byCell[cellKey(area.ID, date)]
			cells = append(cells, models.CellCoverage{
				AreaID:  area.ID,
				Date:    date,
				Verdict: Evaluate(area, cellShifts, rolesByStaff),
			})
		}
	}

	return cells, nil
}

// Apply commits the active draft to the schedule. Per-shift failures are
// reported and skipped while the rest of the batch commits; a successful
// apply consumes the draft.
func (s *DraftService) Apply(clearExisting bool) ([]models.Shift, []RejectedShift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return nil, nil, models.ErrNoDraft
	}

	candidates := make([]models.Shift, 0, len(s.draft.Shifts))
	for _, ds := range s.draft.Shifts {
		candidates = append(candidates, ds.Shift)
	}

	applied, rejected, err := s.schedule.ApplyCandidates(s.draft.WeekStart, clearExisting, candidates)
	if err != nil {
		return nil, nil, err
	}

	s.draft = nil
	return applied, rejected, nil
}

// Discard drops the active draft without touching the committed schedule
func (s *DraftService) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return models.ErrNoDraft
	}
	s.draft = nil
	return nil
}

func approvedFor(timeOff []models.TimeOffRequest, staffID string, date time.Time) []models.TimeOffRequest {
	var out []models.TimeOffRequest
	for i := range timeOff {
		if timeOff[i].StaffID == staffID && timeOff[i].Covers(date) {
			out = append(out, timeOff[i])
		}
	}
	return out
}

func buildOracleRequest(
	weekStart time.Time,
	mode oracle.Mode,
	roster []models.Staff,
	areaList []models.Area,
	timeOff []models.TimeOffRequest,
	existing []models.Shift,
) oracle.Request {
	req := oracle.Request{
		WeekStart: weekStart.Format(models.DateLayout),
		Mode:      mode,
	}

	for _, st := range roster {
		info := oracle.StaffInfo{
			ID:              st.ID,
			Name:            st.Name,
			Role:            string(st.Role),
			ShiftLength:     st.ShiftLength,
			DaysPerWeek:     st.DaysPerWeek,
			IsPerDiem:       st.IsPerDiem,
			AllowedAreas:    st.AllowedAreas,
			RequiredDaysOff: st.RequiredDaysOff,
			FlexibleDaysOff: st.FlexibleDaysOff,
		}
		if st.StartTime != nil {
			info.StartTime = *st.StartTime
		}
		req.Staff = append(req.Staff, info)
	}

	for _, area := range areaList {
		req.Areas = append(req.Areas, oracle.AreaInfo{
			ID:                     area.ID,
			Name:                   area.Name,
			RequiredRNCount:        area.RequiredRNCount,
			RequiredTechCount:      area.RequiredTechCount,
			RequiredScopeTechCount: area.RequiredScopeTechCount,
		})
	}

	for _, to := range timeOff {
		req.TimeOff = append(req.TimeOff, oracle.TimeOffInfo{
			StaffID:   to.StaffID,
			StaffName: to.StaffName,
			StartDate: to.StartDate.Format(models.DateLayout),
			EndDate:   to.EndDate.Format(models.DateLayout),
		})
	}

	if mode == oracle.ModeFillEmpty {
		for _, shift := range existing {
			req.Existing = append(req.Existing, oracle.ExistingShift{
				StaffID:   shift.StaffID,
				AreaID:    shift.AreaID,
				Date:      shift.Date.Format(models.DateLayout),
				StartTime: shift.StartTime,
				EndTime:   shift.EndTime,
			})
		}
	}

	return req
}
