package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// CoverageService computes staffing verdicts for schedule grid cells.
// Evaluation is a pure function of the supplied area, shifts and roster:
// the same inputs always produce the same verdict.
type CoverageService struct {
	shifts ShiftStore
	staff  StaffStore
	areas  AreaStore
}

// NewCoverageService creates a new CoverageService
func NewCoverageService(shifts ShiftStore, staff StaffStore, areas AreaStore) *CoverageService {
	return &CoverageService{shifts: shifts, staff: staff, areas: areas}
}

// Evaluate applies the area's minimum-coverage rule set to the given
// shifts. Every violated sub-rule is enumerated, not just the first.
func Evaluate(area *models.Area, shifts []models.Shift, rolesByStaff map[string]models.StaffRole) models.CoverageVerdict {
	if len(shifts) == 0 {
		return models.CoverageVerdict{Covered: false, Warnings: []string{"Not staffed"}}
	}

	var rnCount, techCount, scopeTechCount int
	for _, shift := range shifts {
		role := shift.StaffRole
		if role == "" {
			role = rolesByStaff[shift.StaffID]
		}
		switch role {
		case models.RoleRN:
			rnCount++
		case models.RoleGITech:
			techCount++
		case models.RoleScopeTech:
			scopeTechCount++
		}
	}

	// empty, not nil, so a covered cell marshals as [] rather than null
	warnings := []string{}
	if area.RequiredRNCount > 0 && rnCount < area.RequiredRNCount {
		warnings = append(warnings, fmt.Sprintf("Needs %d more RN(s)", area.RequiredRNCount-rnCount))
	}
	if area.RequiredTechCount > 0 && techCount < area.RequiredTechCount {
		warnings = append(warnings, fmt.Sprintf("Needs %d more Tech(s)", area.RequiredTechCount-techCount))
	}
	if area.RequiredScopeTechCount > 0 && scopeTechCount < area.RequiredScopeTechCount {
		warnings = append(warnings, fmt.Sprintf("Needs %d more Scope Tech(s)", area.RequiredScopeTechCount-scopeTechCount))
	}

	return models.CoverageVerdict{Covered: len(warnings) == 0, Warnings: warnings}
}

// GetCoverage computes the verdict for one area on one date from the
// committed schedule.
func (s *CoverageService) GetCoverage(areaID string, date time.Time) (*models.CoverageVerdict, error) {
	area, err := s.areas.GetByID(areaID)
	if err != nil {
		return nil, err
	}

	shifts, err := s.shifts.ListByAreaAndDate(areaID, date)
	if err != nil {
		return nil, err
	}

	verdict := Evaluate(area, shifts, nil)
	return &verdict, nil
}

// GetCoverageBatch evaluates every requested area/date cell in one call,
// fanning the per-cell reads out concurrently. Reads are safe to run in
// parallel; only mutations are serialized.
func (s *CoverageService) GetCoverageBatch(areaIDs []string, dates []time.Time) ([]models.CellCoverage, error) {
	areasByID := make(map[string]*models.Area, len(areaIDs))
	for _, id := range areaIDs {
		area, err := s.areas.GetByID(id)
		if err != nil {
			return nil, err
		}
		areasByID[id] = area
	}

	type cell struct {
		areaID string
		date   time.Time
	}
	var cells []cell
	for _, id := range areaIDs {
		for _, date := range dates {
			cells = append(cells, cell{areaID: id, date: date})
		}
	}

	results := make([]models.CellCoverage, len(cells))
	errs := make([]error, len(cells))

	var wg sync.WaitGroup
	for i, c := range cells {
		wg.Add(1)
		go func(i int, c cell) {
			defer wg.Done()
			shifts, err := s.shifts.ListByAreaAndDate(c.areaID, c.date)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = models.CellCoverage{
				AreaID:  c.areaID,
				Date:    c.date,
				Verdict: Evaluate(areasByID[c.areaID], shifts, nil),
			}
		}(i, c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
