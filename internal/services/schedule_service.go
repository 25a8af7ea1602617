package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// ScheduleService owns every mutation of the committed schedule. A single
// mutation lock serializes create/update/delete, batch apply, window clear
// and history restore, so a snapshot can never race an in-flight mutation
// and two overlapping batch applies cannot interleave.
type ScheduleService struct {
	shifts    ShiftStore
	staff     StaffStore
	areas     AreaStore
	timeOff   TimeOffStore
	validator *ValidatorService
	history   *HistoryService
	logger    *logrus.Logger

	// mu serializes every store mutation and history restore
	mu sync.Mutex
}

// RejectedShift reports one candidate that failed re-validation during a
// batch apply, with the specific violated rules.
type RejectedShift struct {
	Shift  models.Shift `json:"shift"`
	Reason string       `json:"reason"`
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(
	shifts ShiftStore,
	staff StaffStore,
	areas AreaStore,
	timeOff TimeOffStore,
	validator *ValidatorService,
	history *HistoryService,
	logger *logrus.Logger,
) *ScheduleService {
	return &ScheduleService{
		shifts:    shifts,
		staff:     staff,
		areas:     areas,
		timeOff:   timeOff,
		validator: validator,
		history:   history,
		logger:    logger,
	}
}

// CreateShift validates and commits a new shift. The pre-mutation state of
// the shift's week is snapshotted before the insert.
func (s *ScheduleService) CreateShift(proposed ProposedShift, override bool) (*models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate under the mutation lock so a concurrent insert cannot slip
	// past the overlap check between validation and commit.
	if err := s.validate(proposed, override); err != nil {
		return nil, err
	}

	shift := &models.Shift{
		StaffID:   proposed.StaffID,
		AreaID:    proposed.AreaID,
		Date:      proposed.Date,
		StartTime: proposed.StartTime,
		EndTime:   proposed.EndTime,
	}

	if err := s.snapshotWeek(proposed.Date); err != nil {
		return nil, err
	}
	if err := s.shifts.Create(shift); err != nil {
		return nil, err
	}

	return s.shifts.GetByID(shift.ID)
}

// UpdateShift validates and commits an in-place edit of an existing shift,
// preserving its identity.
func (s *ScheduleService) UpdateShift(id string, proposed ProposedShift, override bool) (*models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.shifts.GetByID(id)
	if err != nil {
		return nil, err
	}

	proposed.ID = id
	if err := s.validate(proposed, override); err != nil {
		return nil, err
	}

	updated := &models.Shift{
		ID:        id,
		StaffID:   proposed.StaffID,
		AreaID:    proposed.AreaID,
		Date:      proposed.Date,
		StartTime: proposed.StartTime,
		EndTime:   proposed.EndTime,
	}

	// An edit can move a shift across weeks; snapshot both windows.
	if err := s.snapshotWeek(existing.Date); err != nil {
		return nil, err
	}
	if !WeekStart(existing.Date).Equal(WeekStart(proposed.Date)) {
		if err := s.snapshotWeek(proposed.Date); err != nil {
			return nil, err
		}
	}

	if err := s.shifts.Update(updated); err != nil {
		return nil, err
	}

	return s.shifts.GetByID(id)
}

// DeleteShift removes a committed shift after snapshotting its week
func (s *ScheduleService) DeleteShift(id string) error {
	existing, err := s.shifts.GetByID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.snapshotWeek(existing.Date); err != nil {
		return err
	}

	return s.shifts.Delete(id)
}

// ListWeek returns the committed shifts for the week containing the date
func (s *ScheduleService) ListWeek(date time.Time) ([]models.Shift, error) {
	return s.shifts.ListBetween(WeekStart(date), WeekEnd(date))
}

// ApplyCandidates commits a validated batch of candidate shifts into the
// given week. When clearExisting is true the window is emptied first;
// otherwise only candidates for area/date cells without a committed shift
// are inserted. Each candidate is re-validated without override; failures
// are skipped and reported per item while the rest of the batch still
// commits. This best-effort behavior is deliberate and always reported,
// never silent.
func (s *ScheduleService) ApplyCandidates(weekStart time.Time, clearExisting bool, candidates []models.Shift) ([]models.Shift, []RejectedShift, error) {
	windowStart := WeekStart(weekStart)
	windowEnd := WeekEnd(weekStart)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.shifts.ListBetween(windowStart, windowEnd)
	if err != nil {
		return nil, nil, err
	}
	s.history.Snapshot(windowStart, windowEnd, current)

	occupied := make(map[string]bool)
	if clearExisting {
		if err := s.shifts.DeleteBetween(windowStart, windowEnd); err != nil {
			return nil, nil, err
		}
	} else {
		for _, shift := range current {
			occupied[cellKey(shift.AreaID, shift.Date)] = true
		}
	}

	var applied []models.Shift
	var rejected []RejectedShift
	for _, cand := range candidates {
		if !clearExisting && occupied[cellKey(cand.AreaID, cand.Date)] {
			continue
		}

		proposed := ProposedShift{
			StaffID:   cand.StaffID,
			AreaID:    cand.AreaID,
			Date:      cand.Date,
			StartTime: cand.StartTime,
			EndTime:   cand.EndTime,
		}
		if err := s.validate(proposed, false); err != nil {
			rejected = append(rejected, RejectedShift{Shift: cand, Reason: err.Error()})
			continue
		}

		shift := &models.Shift{
			StaffID:   cand.StaffID,
			AreaID:    cand.AreaID,
			Date:      cand.Date,
			StartTime: cand.StartTime,
			EndTime:   cand.EndTime,
		}
		if err := s.shifts.Create(shift); err != nil {
			rejected = append(rejected, RejectedShift{Shift: cand, Reason: err.Error()})
			continue
		}
		applied = append(applied, *shift)
	}

	s.logger.WithFields(logrus.Fields{
		"week_start":     windowStart.Format(models.DateLayout),
		"clear_existing": clearExisting,
		"applied":        len(applied),
		"rejected":       len(rejected),
	}).Info("Applied draft schedule")

	return applied, rejected, nil
}

// Undo restores the most recent pre-mutation snapshot. A no-op at the
// earliest entry: the committed schedule is returned unchanged.
func (s *ScheduleService) Undo() ([]models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Undo()
}

// Redo re-applies the mutation reverted by the last undo
func (s *ScheduleService) Redo() ([]models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Redo()
}

// validate resolves the proposal's references and runs the constraint
// validator against the staff member's week.
func (s *ScheduleService) validate(proposed ProposedShift, override bool) error {
	ctx := ValidationContext{}

	staff, err := s.staff.GetByID(proposed.StaffID)
	if err != nil && err != models.ErrNotFound {
		return err
	}
	ctx.Staff = staff

	area, err := s.areas.GetByID(proposed.AreaID)
	if err != nil && err != models.ErrNotFound {
		return err
	}
	ctx.Area = area

	if staff != nil {
		weekShifts, err := s.shifts.ListByStaffBetween(
			proposed.StaffID, WeekStart(proposed.Date), WeekEnd(proposed.Date),
		)
		if err != nil {
			return err
		}
		ctx.WeekShifts = weekShifts

		timeOff, err := s.timeOff.ListApprovedForStaffDate(proposed.StaffID, proposed.Date)
		if err != nil {
			return err
		}
		ctx.TimeOff = timeOff
	}

	return s.validator.Validate(proposed, ctx, override)
}

func (s *ScheduleService) snapshotWeek(date time.Time) error {
	windowStart := WeekStart(date)
	windowEnd := WeekEnd(date)
	current, err := s.shifts.ListBetween(windowStart, windowEnd)
	if err != nil {
		return err
	}
	s.history.Snapshot(windowStart, windowEnd, current)
	return nil
}

func cellKey(areaID string, date time.Time) string {
	return areaID + "|" + date.Format(models.DateLayout)
}
