package services

import (
	"time"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// TimeOffService manages time-off requests and their approval lifecycle
type TimeOffService struct {
	timeOff TimeOffStore
	staff   StaffStore
}

// NewTimeOffService creates a new TimeOffService
func NewTimeOffService(timeOff TimeOffStore, staff StaffStore) *TimeOffService {
	return &TimeOffService{
		timeOff: timeOff,
		staff:   staff,
	}
}

// Submit records a new pending request for the staff member
func (s *TimeOffService) Submit(staffID string, startDate, endDate time.Time, reason *string) (*models.TimeOffRequest, error) {
	var reasons []string
	if startDate.IsZero() || endDate.IsZero() {
		reasons = append(reasons, "start date and end date are required")
	} else if endDate.Before(startDate) {
		reasons = append(reasons, "end date cannot be before start date")
	}

	staff, err := s.staff.GetByID(staffID)
	if err != nil {
		if err == models.ErrNotFound {
			reasons = append(reasons, "staff member not found")
		} else {
			return nil, err
		}
	} else if !staff.IsActive {
		reasons = append(reasons, "staff member is inactive")
	}

	if len(reasons) > 0 {
		return nil, &models.ValidationError{Reasons: reasons}
	}

	req := &models.TimeOffRequest{
		StaffID:   staffID,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    reason,
	}
	if err := s.timeOff.Create(req); err != nil {
		return nil, err
	}
	if staff != nil {
		req.StaffName = staff.Name
	}
	return req, nil
}

// Decide moves a pending request to approved or denied. Decisions are
// terminal; deciding an already-decided request fails.
func (s *TimeOffService) Decide(id string, status models.TimeOffStatus) (*models.TimeOffRequest, error) {
	if status != models.TimeOffApproved && status != models.TimeOffDenied {
		return nil, &models.ValidationError{Reasons: []string{"status must be approved or denied"}}
	}

	if err := s.timeOff.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	return s.timeOff.GetByID(id)
}

// List returns all requests
func (s *TimeOffService) List() ([]models.TimeOffRequest, error) {
	return s.timeOff.List()
}
